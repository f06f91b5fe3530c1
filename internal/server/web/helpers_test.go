package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/metrics"
	"github.com/dmitrijs2005/scribe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/scribe/internal/server/services"
	"github.com/stretchr/testify/require"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()

	repos := repomanager.NewMemoryRepositoryManager()
	store := cache.NewStore(cache.NewMemory(), logging.Nop{})
	users := services.NewUserService(repos, store, logging.Nop{})

	return Deps{
		Logger:         logging.Nop{},
		Metrics:        metrics.NewCollector("test"),
		Cache:          store,
		Users:          users,
		Sessions:       services.NewSessionService(repos, users, logging.Nop{}, "web-test", time.Hour),
		Posts:          services.NewPostService(repos, store, logging.Nop{}, 10),
		Wiki:           services.NewWikiService(repos, store, logging.Nop{}),
		RequestTimeout: 5 * time.Second,
	}
}

// browser is an HTTP client that keeps cookies and does not follow
// redirects, so tests can assert on Location.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type response struct {
	status   int
	location string
	body     string
	header   http.Header
}

func (b *browser) do(req *http.Request) response {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)

	return response{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(body),
		header:   resp.Header,
	}
}

func (b *browser) get(path string) response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) response {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) signup(name, password string) response {
	b.t.Helper()
	return b.post("/signup", url.Values{
		"username": {name},
		"password": {password},
		"verify":   {password},
	})
}
