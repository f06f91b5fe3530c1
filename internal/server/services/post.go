package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
)

const recentPostsKey = "posts:recent"

func postKey(id int64) string { return "post:" + strconv.FormatInt(id, 10) }

// PostService serves blog posts. The front page list is cached under one
// key that every Create invalidates.
type PostService struct {
	repomanager   repomanager.RepositoryManager
	cache         *cache.Store
	logger        logging.Logger
	frontPageSize int
}

func NewPostService(m repomanager.RepositoryManager, c *cache.Store, l logging.Logger, frontPageSize int) *PostService {
	return &PostService{
		repomanager:   m,
		cache:         c,
		logger:        l.With("module", "post_service"),
		frontPageSize: frontPageSize,
	}
}

// Create stores a post and returns its id. Missing subject or content is
// reported as a *common.ValidationError.
func (s *PostService) Create(ctx context.Context, form PostForm) (int64, error) {
	if err := form.validate().OrNil(); err != nil {
		return 0, err
	}

	post, err := s.repomanager.Posts().Create(ctx, &models.Post{Subject: form.Subject, Content: form.Content})
	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	cache.Put(ctx, s.cache, postKey(post.ID), post)
	s.cache.Forget(ctx, recentPostsKey)

	s.logger.Info(ctx, "post created", "id", post.ID)
	return post.ID, nil
}

// Get returns the post with id and the age of the cached copy. Unknown ids
// yield common.ErrorNotFound.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, time.Duration, error) {
	return cache.Load(ctx, s.cache, postKey(id), func(ctx context.Context) (*models.Post, error) {
		return s.repomanager.Posts().GetByID(ctx, id)
	})
}

// Recent returns the front page posts, newest first, and the age of the
// cached list.
func (s *PostService) Recent(ctx context.Context) ([]*models.Post, time.Duration, error) {
	return cache.Load(ctx, s.cache, recentPostsKey, func(ctx context.Context) ([]*models.Post, error) {
		return s.repomanager.Posts().Recent(ctx, s.frontPageSize)
	})
}

// Forget drops the cached copy of one post.
func (s *PostService) Forget(ctx context.Context, id int64) {
	s.cache.Forget(ctx, postKey(id))
}
