// Package sessions persists server-side login sessions. A session row backs
// every issued token; deleting the row revokes the token.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/scribe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	// Find returns common.ErrorNotFound if the id is unknown.
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions that expired before now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
