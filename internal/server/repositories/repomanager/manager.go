// Package repomanager groups the per-table repositories behind one handle
// and provides a transactional scope over them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/scribe/internal/server/repositories/posts"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/revisions"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	Users() users.Repository
	Posts() posts.Repository
	Revisions() revisions.Repository
	Sessions() sessions.Repository

	// WithTx runs fn with a manager whose repositories share one
	// transaction. It commits when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error

	Ping(ctx context.Context) error
	Close() error
}
