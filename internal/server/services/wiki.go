package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/prometheus/client_golang/prometheus"
)

// editAttempts bounds how often Edit re-reads the latest version after
// losing a race to another writer.
const editAttempts = 3

func historyKey(path string) string { return "wiki:history:" + path }

// WikiService keeps the revision history of wiki pages. The whole history
// of a path is cached under one key and replaced after every edit.
type WikiService struct {
	repomanager repomanager.RepositoryManager
	cache       *cache.Store
	logger      logging.Logger
	conflicts   prometheus.Counter
}

type WikiOption func(*WikiService)

// WithConflictCounter counts appends that had to be retried.
func WithConflictCounter(c prometheus.Counter) WikiOption {
	return func(s *WikiService) { s.conflicts = c }
}

func NewWikiService(m repomanager.RepositoryManager, c *cache.Store, l logging.Logger, opts ...WikiOption) *WikiService {
	s := &WikiService{
		repomanager: m,
		cache:       c,
		logger:      l.With("module", "wiki_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Edit appends a revision of path with the next version number. Empty
// content is reported as a *common.ValidationError.
func (s *WikiService) Edit(ctx context.Context, path, content, author string) (*models.Revision, error) {
	if err := (PageForm{Content: content}).validate().OrNil(); err != nil {
		return nil, err
	}

	var (
		rev *models.Revision
		err error
	)
	for attempt := 1; attempt <= editAttempts; attempt++ {
		rev, err = s.appendRevision(ctx, path, content, author)
		if !errors.Is(err, common.ErrVersionConflict) {
			break
		}
		if s.conflicts != nil {
			s.conflicts.Inc()
		}
		s.logger.Warn(ctx, "wiki version conflict", "path", path, "attempt", attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("error appending revision: %w", err)
	}

	s.refreshHistory(ctx, path)

	s.logger.Info(ctx, "wiki page edited", "path", path, "version", rev.Version, "author", author)
	return rev, nil
}

func (s *WikiService) appendRevision(ctx context.Context, path, content, author string) (*models.Revision, error) {
	var rev *models.Revision
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.RepositoryManager) error {
		latest, err := tx.Revisions().MaxVersion(ctx, path)
		if err != nil {
			return err
		}
		rev, err = tx.Revisions().Create(ctx, &models.Revision{
			Path:    path,
			Version: latest + 1,
			Content: content,
			Author:  author,
		})
		return err
	})
	return rev, err
}

func (s *WikiService) refreshHistory(ctx context.Context, path string) {
	history, err := s.repomanager.Revisions().ListByPath(ctx, path)
	if err != nil || len(history) == 0 {
		s.cache.Forget(ctx, historyKey(path))
		return
	}
	cache.Put(ctx, s.cache, historyKey(path), history)
}

// History returns every revision of path ordered by version ascending. A
// path without revisions has an empty history.
func (s *WikiService) History(ctx context.Context, path string) ([]*models.Revision, error) {
	history, _, err := cache.Load(ctx, s.cache, historyKey(path), func(ctx context.Context) ([]*models.Revision, error) {
		list, err := s.repomanager.Revisions().ListByPath(ctx, path)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, common.ErrorNotFound
		}
		return list, nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	return history, err
}

// GetVersion returns one revision of path. An empty requested version, or
// one beyond the latest, selects the latest revision. Anything that is not
// a positive integer is a *common.ValidationError. A path without
// revisions yields common.ErrorNotFound.
func (s *WikiService) GetVersion(ctx context.Context, path, requested string) (*models.Revision, error) {
	want := 0
	if requested = strings.TrimSpace(requested); requested != "" {
		n, err := strconv.Atoi(requested)
		switch {
		case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(requested, "-"):
			// Beyond any version a page can reach: serve the latest.
		case err != nil || n < 1:
			verr := common.NewValidationError()
			verr.Add("v", MsgInvalidVersion)
			return nil, verr
		default:
			want = n
		}
	}

	history, err := s.History(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, common.ErrorNotFound
	}

	latest := history[len(history)-1]
	if want == 0 || want >= latest.Version {
		return latest, nil
	}
	for _, rev := range history {
		if rev.Version == want {
			return rev, nil
		}
	}
	return latest, nil
}
