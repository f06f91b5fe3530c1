// Package admin implements the operator commands: creating accounts without
// going through the signup page, and flushing a site's shared cache.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/config"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scribe/internal/server/services"
)

const usage = `usage:
  admin [flags] useradd <name>
  admin [flags] flush <site>`

var ErrUsage = errors.New(usage)

// valueFlags are the config flags that consume the following token.
var valueFlags = map[string]struct{}{
	"-a": {}, "-g": {}, "-d": {}, "-m": {}, "-s": {}, "-t": {},
	"-k": {}, "-r": {}, "-p": {}, "-w": {}, "-n": {}, "-c": {}, "-config": {},
}

// Positional drops config flags and their values from args.
func Positional(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if _, ok := valueFlags[arg]; ok {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

type Admin struct {
	users *services.UserService
	cache *cache.Store
	out   io.Writer
}

func New(m repomanager.RepositoryManager, c *cache.Store, out io.Writer) *Admin {
	return &Admin{
		users: services.NewUserService(m, c, logging.Nop{}),
		cache: c,
		out:   out,
	}
}

// UserAdd prompts twice for a password and creates the account.
func (a *Admin) UserAdd(ctx context.Context, name string) error {
	password, err := getPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	verify, err := getPassword(a.out, "Repeat password: ")
	if err != nil {
		return err
	}

	user, err := a.users.Signup(ctx, services.SignupForm{Username: name, Password: password, Verify: verify})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "user %s created (id %d)\n", user.UserName, user.ID)
	return nil
}

// Flush clears the cache.
func (a *Admin) Flush(ctx context.Context) error {
	if err := a.cache.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "cache flushed")
	return nil
}

// Run executes the command named by args against the configured backends.
func Run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) != 2 {
		return ErrUsage
	}

	switch args[0] {
	case "useradd":
		repos, err := server.OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer repos.Close()

		// Sites load users through their own cache on demand.
		return New(repos, cache.NewStore(cache.NewMemory(), logging.Nop{}), out).UserAdd(ctx, args[1])

	case "flush":
		if cfg.CacheBackend != config.BackendRedis {
			return errors.New("flush needs the shared redis cache; a memory cache lives inside each site process")
		}
		c := server.OpenCache(cfg, args[1], logging.Nop{})
		if closer, ok := c.(io.Closer); ok {
			defer closer.Close()
		}

		return New(nil, cache.NewStore(c, logging.Nop{}), out).Flush(ctx)
	}

	return ErrUsage
}
