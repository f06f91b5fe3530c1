package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/scribe/internal/server/repositories/posts"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/revisions"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. WithTx
// serializes callers; there is no rollback, so a failed fn leaves earlier
// writes in place.
type MemoryRepositoryManager struct {
	txMu *sync.Mutex

	users     *users.MemoryRepository
	posts     *posts.MemoryRepository
	revisions *revisions.MemoryRepository
	sessions  *sessions.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		txMu:      &sync.Mutex{},
		users:     users.NewMemoryRepository(),
		posts:     posts.NewMemoryRepository(),
		revisions: revisions.NewMemoryRepository(),
		sessions:  sessions.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository         { return m.users }
func (m *MemoryRepositoryManager) Posts() posts.Repository         { return m.posts }
func (m *MemoryRepositoryManager) Revisions() revisions.Repository { return m.revisions }
func (m *MemoryRepositoryManager) Sessions() sessions.Repository   { return m.sessions }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	return fn(ctx, memoryTx{m})
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }
func (m *MemoryRepositoryManager) Close() error                   { return nil }

// memoryTx is the manager handed to WithTx callbacks. The lock is already
// held, so nesting runs fn directly.
type memoryTx struct {
	*MemoryRepositoryManager
}

func (t memoryTx) WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error {
	return fn(ctx, t)
}
