// Package server initializes and runs one site: it opens the store and the
// cache, builds the services and the site router, and serves HTTP alongside
// the gRPC health endpoint until a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/config"
	"github.com/dmitrijs2005/scribe/internal/server/metrics"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scribe/internal/server/services"
	"github.com/dmitrijs2005/scribe/internal/server/web"

	gs "github.com/dmitrijs2005/scribe/internal/server/grpc"
)

const (
	purgeInterval   = 10 * time.Minute
	probeInterval   = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Site describes one of the binaries. Stateless sites open neither a store
// nor a shared cache.
type Site struct {
	Name      string
	Stateless bool
	NewRouter func(web.Deps) (http.Handler, error)
}

var (
	Blog  = Site{Name: "blog", NewRouter: web.NewBlogRouter}
	Wiki  = Site{Name: "wiki", NewRouter: web.NewWikiRouter}
	Rot13 = Site{Name: "rot13", Stateless: true, NewRouter: web.NewRot13Router}
	Hello = Site{Name: "hello", Stateless: true, NewRouter: web.NewHelloRouter}
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type App struct {
	site     Site
	config   *config.Config
	logger   logging.Logger
	metrics  *metrics.Collector
	repos    repomanager.RepositoryManager
	cache    cache.Cache
	sessions *services.SessionService
	handler  http.Handler
}

func NewApp(site Site, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo).With("site", site.Name)
	return newApp(context.Background(), site, c, logger)
}

func newApp(ctx context.Context, site Site, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{
		site:    site,
		config:  c,
		logger:  logger,
		metrics: metrics.NewCollector(site.Name),
	}

	deps := web.Deps{
		Logger:         logger,
		Metrics:        app.metrics,
		RequestTimeout: c.RequestTimeout,
	}

	if !site.Stateless {
		repos, err := OpenStore(ctx, c)
		if err != nil {
			return nil, err
		}
		app.repos = repos
		app.cache = cache.NewInstrumented(OpenCache(c, site.Name, logger), app.metrics.CacheRequests)

		store := cache.NewStore(app.cache, logger)
		us := services.NewUserService(repos, store, logger)
		app.sessions = services.NewSessionService(repos, us, logger, c.SecretKey, c.SessionValidityDuration)

		deps.Cache = store
		deps.Users = us
		deps.Sessions = app.sessions
		deps.Posts = services.NewPostService(repos, store, logger, c.FrontPageSize)
		deps.Wiki = services.NewWikiService(repos, store, logger, services.WithConflictCounter(app.metrics.WikiConflicts))
	}

	h, err := site.NewRouter(deps)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("router init error: %w", err)
	}
	app.handler = h

	return app, nil
}

// OpenStore opens the repository manager selected by c.StoreBackend.
func OpenStore(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StoreBackend {
	case config.BackendMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	case config.BackendPostgres:
		m, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
}

// OpenCache returns the cache selected by c.CacheBackend. Anything but redis
// gets a process-local cache.
func OpenCache(c *config.Config, site string, logger logging.Logger) cache.Cache {
	if c.CacheBackend == config.BackendRedis {
		return cache.NewRedis(c.RedisAddr, cache.RedisOptions{Prefix: c.KeyPrefix(site)}, logger)
	}
	return cache.NewMemory()
}

// Handler is the site router.
func (app *App) Handler() http.Handler { return app.handler }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, lis net.Listener) {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	alive := pingFunc(func(ctx context.Context) error { return ctx.Err() })

	var store, c gs.Pinger = alive, alive
	if app.repos != nil {
		store = app.repos
	}
	if app.cache != nil {
		c = app.cache
	}

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, store, c, probeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done, a termination signal arrives or one of the
// servers fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		app.close()
		return err
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, lis)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.sessions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.sessions.RunPurger(ctx, purgeInterval)
		}()
	}

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")

	return nil
}

func (app *App) close() {
	if app.repos != nil {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(context.Background(), "store close error", "error", err.Error())
		}
	}
	if closer, ok := app.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error(context.Background(), "cache close error", "error", err.Error())
		}
	}
}
