// Package cache provides the byte-oriented key/value cache that fronts the
// content store, plus a read-through helper that records when each entry
// was populated.
//
// Entries never expire on their own. Writers overwrite or delete keys
// explicitly; Flush drops everything the cache instance owns.
package cache

import (
	"context"
	"errors"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
	Ping(ctx context.Context) error
}
