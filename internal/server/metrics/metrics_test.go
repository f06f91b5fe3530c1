package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector("blog")
	b := NewCollector("blog")

	a.PostsCreated.Inc()
	a.CacheRequests.WithLabelValues("get", "hit").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.PostsCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PostsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheRequests.WithLabelValues("get", "hit")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("wiki")
	c.WikiEdits.Add(2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wiki_wiki_edits_total 2")
}
