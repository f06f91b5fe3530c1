// Package posts stores blog posts.
package posts

import (
	"context"

	"github.com/dmitrijs2005/scribe/internal/server/models"
)

type Repository interface {
	// Create inserts post and fills in its ID and CreatedAt.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)

	// GetByID returns the post or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Post, error)

	// Recent returns up to limit posts, newest first.
	Recent(ctx context.Context, limit int) ([]*models.Post, error)
}
