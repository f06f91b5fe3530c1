// Package grpc exposes the standard gRPC health service for a site. The
// store and the cache are probed periodically; only a store failure takes
// the site out of service, since the cache is advisory.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Health service names reported besides the overall "" entry.
const (
	ServiceStore = "store"
	ServiceCache = "cache"
)

// Pinger is anything that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	store    Pinger
	cache    Pinger
	health   *health.Server
	interval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, store, cache Pinger, interval time.Duration) *GRPCServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		store:    store,
		cache:    cache,
		health:   health.NewServer(),
		interval: interval,
	}
}

func servingStatus(err error) healthpb.HealthCheckResponse_ServingStatus {
	if err != nil {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// Probe pings the store and the cache once and publishes the result.
func (s *GRPCServer) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	storeErr := s.store.Ping(ctx)
	if storeErr != nil {
		s.logger.Warn(ctx, "store ping failed", "error", storeErr.Error())
	}
	s.health.SetServingStatus(ServiceStore, servingStatus(storeErr))
	s.health.SetServingStatus("", servingStatus(storeErr))

	cacheErr := s.cache.Ping(ctx)
	if cacheErr != nil {
		s.logger.Warn(ctx, "cache ping failed", "error", cacheErr.Error())
	}
	s.health.SetServingStatus(ServiceCache, servingStatus(cacheErr))
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs the server on lis until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	healthpb.RegisterHealthServer(srv, s.health)

	s.Probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
