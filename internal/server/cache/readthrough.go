package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/vmihailenco/msgpack/v5"
)

// Entry is the stored form of a cached value.
type Entry[T any] struct {
	Value       T         `msgpack:"v"`
	PopulatedAt time.Time `msgpack:"at"`
}

func encode[T any](v T, at time.Time) ([]byte, error) {
	return msgpack.Marshal(&Entry[T]{Value: v, PopulatedAt: at})
}

func decode[T any](b []byte) (Entry[T], error) {
	var e Entry[T]
	err := msgpack.Unmarshal(b, &e)
	return e, err
}

// Store is the advisory layer the services talk to. Cache failures are
// logged and otherwise ignored; the loader is always the source of truth.
type Store struct {
	cache  Cache
	logger logging.Logger
	now    func() time.Time
}

func NewStore(c Cache, logger logging.Logger) *Store {
	return &Store{cache: c, logger: logger, now: time.Now}
}

// SetClock replaces the time source used for population stamps and ages.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) Cache() Cache { return s.cache }

// Load returns the cached value for key with its age. On a miss it calls
// load, caches the result stamped with the current time and returns age 0.
// Errors from load are returned unchanged and nothing is cached.
func Load[T any](ctx context.Context, s *Store, key string, load func(ctx context.Context) (T, error)) (T, time.Duration, error) {
	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		e, derr := decode[T](raw)
		if derr == nil {
			return e.Value, s.age(e.PopulatedAt), nil
		}
		s.logger.Warn(ctx, "undecodable cache entry", "key", key, "error", derr.Error())
	case !errors.Is(err, ErrMiss):
		s.logger.Warn(ctx, "cache get failed", "key", key, "error", err.Error())
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, 0, err
	}

	Put(ctx, s, key, v)
	return v, 0, nil
}

// Put write-populates key with v stamped now.
func Put[T any](ctx context.Context, s *Store, key string, v T) {
	b, err := encode(v, s.now())
	if err != nil {
		s.logger.Warn(ctx, "cache encode failed", "key", key, "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, key, b); err != nil {
		s.logger.Warn(ctx, "cache set failed", "key", key, "error", err.Error())
	}
}

// Forget deletes key. A failure is logged.
func (s *Store) Forget(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "cache delete failed", "key", key, "error", err.Error())
	}
}

// Flush clears the cache. Unlike the other helpers it reports failure,
// because it is only triggered on explicit request.
func (s *Store) Flush(ctx context.Context) error {
	return s.cache.Flush(ctx)
}

func (s *Store) age(populated time.Time) time.Duration {
	d := s.now().Sub(populated)
	if d < 0 {
		return 0
	}
	return d
}
