// Package users stores registered users.
package users

import (
	"context"

	"github.com/dmitrijs2005/scribe/internal/server/models"
)

// Repository persists users. Usernames are unique.
type Repository interface {
	// Create inserts user and fills in its ID and CreatedAt. A taken
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns the user named userName or common.ErrorNotFound.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
