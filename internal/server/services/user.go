// Package services contains the cache-fronted repositories behind the
// sites. Each service reads through the cache to the content store and is
// the only writer of the cache keys it owns.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/cryptox"
	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
)

func userKey(username string) string { return "user:" + username }

// UserService handles registration, lookup and credential checks.
type UserService struct {
	repomanager repomanager.RepositoryManager
	cache       *cache.Store
	logger      logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, c *cache.Store, l logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		cache:       c,
		logger:      l.With("module", "user_service"),
	}
}

// Signup validates form, stores the new user and write-populates its cache
// entry. Rejected input, including a taken username, is reported as a
// *common.ValidationError.
func (s *UserService) Signup(ctx context.Context, form SignupForm) (*models.User, error) {
	verr := form.validate()

	if !verr.Has("username") {
		_, err := s.GetByUsername(ctx, form.Username)
		switch {
		case err == nil:
			verr.Add("username", MsgUsernameTaken)
		case !errors.Is(err, common.ErrorNotFound):
			return nil, fmt.Errorf("error looking up user: %w", err)
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		UserName:     form.Username,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword(form.Password, salt),
		Email:        form.Email,
	}

	user, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			verr.Add("username", MsgUsernameTaken)
			return nil, verr
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	cache.Put(ctx, s.cache, userKey(user.UserName), user)
	s.logger.Info(ctx, "user registered", "username", user.UserName, "id", user.ID)

	return user, nil
}

// GetByUsername reads the user through the cache. Unknown names yield
// common.ErrorNotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, common.ErrorNotFound
	}
	user, _, err := cache.Load(ctx, s.cache, userKey(username), func(ctx context.Context) (*models.User, error) {
		return s.repomanager.Users().GetUserByLogin(ctx, username)
	})
	return user, err
}

// CheckPassword reports whether plaintext is user's password. It is false
// for a nil user or an empty password.
func (s *UserService) CheckPassword(user *models.User, plaintext string) bool {
	if user == nil || plaintext == "" {
		return false
	}
	return cryptox.CheckPassword(user.PasswordHash, user.Salt, plaintext)
}

// Login returns the user whose credentials match. An unknown username and a
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	// Cached users carry no credentials, so this always asks the store.
	user, err := s.repomanager.Users().GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "username", username, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !s.CheckPassword(user, password) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}
