package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/auth"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SessionService issues, verifies and revokes session tokens. Every token
// names a server-side session row; a token outlives neither its own expiry
// nor its row.
type SessionService struct {
	repomanager repomanager.RepositoryManager
	users       *UserService
	logger      logging.Logger
	secret      []byte
	validity    time.Duration
	now         func() time.Time
}

func NewSessionService(m repomanager.RepositoryManager, us *UserService, l logging.Logger, secretKey string, validity time.Duration) *SessionService {
	return &SessionService{
		repomanager: m,
		users:       us,
		logger:      l.With("module", "session_service"),
		secret:      []byte(secretKey),
		validity:    validity,
		now:         time.Now,
	}
}

// Issue opens a session for user and returns its signed token together
// with the expiry.
func (s *SessionService) Issue(ctx context.Context, user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, common.ErrorUnauthorized
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.validity).UTC(),
	}
	if err := s.repomanager.Sessions().Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(session.ID, user.ID, user.UserName, s.secret, session.ExpiresAt)
	if err != nil {
		return "", time.Time{}, common.ErrorInternal
	}
	return token, session.ExpiresAt, nil
}

// Verify checks token and returns the user it belongs to. The named user
// must still exist and carry the id the token was issued for.
func (s *SessionService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions().Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error finding session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, common.ErrTokenExpired
	}
	if session.UserID != userID {
		return nil, common.ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if user.ID != userID {
		return nil, common.ErrInvalidToken
	}
	return user, nil
}

// Revoke deletes the session behind token. Expired tokens are accepted,
// forged ones are not. Revoking an already deleted session is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := auth.ParseTokenAllowExpired(token, s.secret)
	if err != nil {
		return err
	}
	if err := s.repomanager.Sessions().Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// PurgeExpired removes expired session rows and reports how many went.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions().DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "expired sessions purged", "count", n)
	}
	return n, nil
}

// RunPurger calls PurgeExpired every interval until ctx is done.
func (s *SessionService) RunPurger(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				s.logger.Warn(ctx, "session purge failed", "error", err.Error())
			}
		}
	}
}
