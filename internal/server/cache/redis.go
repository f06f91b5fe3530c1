package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/gomodule/redigo/redis"
	"github.com/sony/gobreaker"
)

// RedisOptions configures NewRedis. Zero values pick defaults.
type RedisOptions struct {
	// Prefix is prepended to every key, and Flush only removes prefixed keys.
	Prefix string

	MaxIdle     int
	IdleTimeout time.Duration

	// FailureThreshold consecutive failures open the breaker, which stays
	// open for OpenTimeout before letting a probe through.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Redis stores entries in Redis. Every call goes through a circuit breaker;
// while it is open calls fail fast with gobreaker.ErrOpenState.
type Redis struct {
	pool    *redis.Pool
	breaker *gobreaker.CircuitBreaker
	prefix  string
}

// NewRedis dials addr lazily through a pool.
func NewRedis(addr string, opts RedisOptions, logger logging.Logger) *Redis {
	pool := &redis.Pool{
		MaxIdle:     opts.MaxIdle,
		IdleTimeout: opts.IdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr,
				redis.DialConnectTimeout(2*time.Second),
				redis.DialReadTimeout(time.Second),
				redis.DialWriteTimeout(time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return NewRedisWithPool(pool, opts, logger)
}

func NewRedisWithPool(pool *redis.Pool, opts RedisOptions, logger logging.Logger) *Redis {
	if pool.MaxIdle == 0 {
		pool.MaxIdle = 8
	}
	if pool.IdleTimeout == 0 {
		pool.IdleTimeout = 4 * time.Minute
	}
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := opts.OpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	})

	return &Redis{pool: pool, breaker: cb, prefix: opts.Prefix}
}

func (c *Redis) do(ctx context.Context, fn func(conn redis.Conn) (any, error)) (any, error) {
	return c.breaker.Execute(func() (any, error) {
		conn, err := c.pool.GetContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("redis conn: %w", err)
		}
		defer conn.Close()
		return fn(conn)
	})
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.do(ctx, func(conn redis.Conn) (any, error) {
		b, err := redis.Bytes(conn.Do("GET", c.prefix+key))
		if errors.Is(err, redis.ErrNil) {
			return nil, ErrMiss
		}
		return b, err
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.do(ctx, func(conn redis.Conn) (any, error) {
		return conn.Do("SET", c.prefix+key, value)
	})
	return err
}

func (c *Redis) Delete(ctx context.Context, key string) error {
	_, err := c.do(ctx, func(conn redis.Conn) (any, error) {
		return conn.Do("DEL", c.prefix+key)
	})
	return err
}

// Flush removes prefixed keys with SCAN so other tenants of the same Redis
// survive. An empty prefix flushes the whole database.
func (c *Redis) Flush(ctx context.Context) error {
	_, err := c.do(ctx, func(conn redis.Conn) (any, error) {
		if c.prefix == "" {
			return conn.Do("FLUSHDB")
		}
		cursor := 0
		for {
			reply, err := redis.Values(conn.Do("SCAN", cursor, "MATCH", c.prefix+"*", "COUNT", 100))
			if err != nil {
				return nil, err
			}
			var keys []string
			if _, err := redis.Scan(reply, &cursor, &keys); err != nil {
				return nil, err
			}
			if len(keys) > 0 {
				args := redis.Args{}.AddFlat(keys)
				if _, err := conn.Do("DEL", args...); err != nil {
					return nil, err
				}
			}
			if cursor == 0 {
				return nil, nil
			}
		}
	})
	return err
}

func (c *Redis) Ping(ctx context.Context) error {
	_, err := c.do(ctx, func(conn redis.Conn) (any, error) {
		return redis.String(conn.Do("PING"))
	})
	return err
}

// State exposes the breaker state for health reporting.
func (c *Redis) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Redis) Close() error {
	return c.pool.Close()
}
