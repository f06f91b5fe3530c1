package cache

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumented_CountsResults(t *testing.T) {
	ctx := context.Background()
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_requests_total"}, []string{"op", "result"})
	c := NewInstrumented(NewMemory(), vec)

	_, _ = c.Get(ctx, "k")
	_ = c.Set(ctx, "k", []byte("v"))
	_, _ = c.Get(ctx, "k")
	_, _ = c.Get(ctx, "k")
	_ = c.Delete(ctx, "k")
	_ = c.Flush(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("get", "miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("get", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("delete", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("flush", "ok")))
}

func TestInstrumented_Close(t *testing.T) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "cache_requests_total"}, []string{"op", "result"})
	assert.NoError(t, NewInstrumented(NewMemory(), vec).Close())
}
