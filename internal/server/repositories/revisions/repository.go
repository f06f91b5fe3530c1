// Package revisions stores versioned wiki page content.
//
// Versions for a path start at 1 and grow by one with every edit. The pair
// (path, version) is unique; a duplicate insert reports
// common.ErrVersionConflict so callers can re-read and retry.
package revisions

import (
	"context"

	"github.com/dmitrijs2005/scribe/internal/server/models"
)

type Repository interface {
	// MaxVersion returns the highest stored version for path, or 0.
	MaxVersion(ctx context.Context, path string) (int, error)

	Create(ctx context.Context, rev *models.Revision) (*models.Revision, error)

	// ListByPath returns every revision of path ordered by version ascending.
	ListByPath(ctx context.Context, path string) ([]*models.Revision, error)
}
