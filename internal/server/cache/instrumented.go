package cache

import (
	"context"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented counts operations on the wrapped cache by op and result
// ("hit", "miss", "ok", "error").
type Instrumented struct {
	next     Cache
	requests *prometheus.CounterVec
}

// NewInstrumented wraps next. requests must have the labels "op" and "result".
func NewInstrumented(next Cache, requests *prometheus.CounterVec) *Instrumented {
	return &Instrumented{next: next, requests: requests}
}

func (c *Instrumented) observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil && op == "get":
		result = "hit"
	case errors.Is(err, ErrMiss):
		result = "miss"
	case err != nil:
		result = "error"
	}
	c.requests.WithLabelValues(op, result).Inc()
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.next.Get(ctx, key)
	c.observe("get", err)
	return v, err
}

func (c *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	err := c.next.Set(ctx, key, value)
	c.observe("set", err)
	return err
}

func (c *Instrumented) Delete(ctx context.Context, key string) error {
	err := c.next.Delete(ctx, key)
	c.observe("delete", err)
	return err
}

func (c *Instrumented) Flush(ctx context.Context) error {
	err := c.next.Flush(ctx)
	c.observe("flush", err)
	return err
}

func (c *Instrumented) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// Close closes the wrapped cache when it holds resources.
func (c *Instrumented) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
