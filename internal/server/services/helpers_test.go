package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
)

type testEnv struct {
	repos *repomanager.MemoryRepositoryManager
	mem   *cache.Memory
	store *cache.Store
	clock *fakeClock

	users    *UserService
	sessions *SessionService
	posts    *PostService
	wiki     *WikiService
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := repomanager.NewMemoryRepositoryManager()
	mem := cache.NewMemory()
	clk := &fakeClock{t: time.Now()}
	store := cache.NewStore(mem, logging.Nop{})
	store.SetClock(clk.now)

	us := NewUserService(repos, store, logging.Nop{})
	ss := NewSessionService(repos, us, logging.Nop{}, "test-secret", time.Hour)
	ss.now = clk.now

	return &testEnv{
		repos:    repos,
		mem:      mem,
		store:    store,
		clock:    clk,
		users:    us,
		sessions: ss,
		posts:    NewPostService(repos, store, logging.Nop{}, 2),
		wiki:     NewWikiService(repos, store, logging.Nop{}),
	}
}
