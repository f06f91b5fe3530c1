package admin

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/config"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositional(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"bare", []string{"useradd", "alice"}, []string{"useradd", "alice"}},
		{"flags first", []string{"-m", "memory", "-k", "redis", "flush", "blog"}, []string{"flush", "blog"}},
		{"inline values", []string{"-d=postgres://x", "useradd", "bob"}, []string{"useradd", "bob"}},
		{"config file", []string{"useradd", "-c", "conf.json", "carol"}, []string{"useradd", "carol"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.args))
		})
	}
}

func newTestAdmin() (*Admin, *repomanager.MemoryRepositoryManager, *cache.Memory, *bytes.Buffer) {
	repos := repomanager.NewMemoryRepositoryManager()
	mem := cache.NewMemory()
	var out bytes.Buffer
	return New(repos, cache.NewStore(mem, logging.Nop{}), &out), repos, mem, &out
}

func TestUserAdd(t *testing.T) {
	stubPasswords(t, "hunter2", "hunter2")
	a, repos, _, out := newTestAdmin()
	ctx := context.Background()

	require.NoError(t, a.UserAdd(ctx, "alice"))
	assert.Contains(t, out.String(), "user alice created")

	u, err := repos.Users().GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)
	assert.True(t, a.users.CheckPassword(u, "hunter2"))
}

func TestUserAdd_PasswordsDiffer(t *testing.T) {
	stubPasswords(t, "hunter2", "hunter3")
	a, _, _, _ := newTestAdmin()

	err := a.UserAdd(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify: Passwords don't match.")
}

func TestUserAdd_Taken(t *testing.T) {
	stubPasswords(t, "hunter2", "hunter2", "hunter2", "hunter2")
	a, _, _, _ := newTestAdmin()
	ctx := context.Background()

	require.NoError(t, a.UserAdd(ctx, "alice"))
	err := a.UserAdd(ctx, "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username: Username already exists.")
}

func TestUserAdd_PromptError(t *testing.T) {
	stubPasswords(t)
	a, _, _, _ := newTestAdmin()

	assert.Error(t, a.UserAdd(context.Background(), "alice"))
}

func TestFlush(t *testing.T) {
	a, _, mem, out := newTestAdmin()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "k", []byte("v")))

	require.NoError(t, a.Flush(ctx))
	assert.Equal(t, 0, mem.Len())
	assert.Contains(t, out.String(), "cache flushed")
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreBackend = config.BackendMemory
	return c
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	ctx := context.Background()

	assert.ErrorIs(t, Run(ctx, testConfig(), nil, &out), ErrUsage)
	assert.ErrorIs(t, Run(ctx, testConfig(), []string{"useradd"}, &out), ErrUsage)
	assert.ErrorIs(t, Run(ctx, testConfig(), []string{"reboot", "now"}, &out), ErrUsage)
}

func TestRun_UserAdd(t *testing.T) {
	stubPasswords(t, "hunter2", "hunter2")
	var out bytes.Buffer

	require.NoError(t, Run(context.Background(), testConfig(), []string{"useradd", "alice"}, &out))
	assert.Contains(t, out.String(), "user alice created")
}

func TestRun_FlushNeedsRedis(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, Run(context.Background(), testConfig(), []string{"flush", "blog"}, &out))
}

func TestRun_FlushRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("blog:post:1", "x"))
	require.NoError(t, mr.Set("wiki:post:1", "y"))

	c := testConfig()
	c.CacheBackend = config.BackendRedis
	c.RedisAddr = mr.Addr()

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), c, []string{"flush", "blog"}, &out))

	assert.False(t, mr.Exists("blog:post:1"))
	assert.True(t, mr.Exists("wiki:post:1"))
}
