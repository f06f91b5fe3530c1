// Package web serves the HTML sites: blog, wiki, rot13 and the starter
// page. Routing is done with chi; pages are html/template views embedded
// in the binary.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/logging"
	"github.com/dmitrijs2005/scribe/internal/server/cache"
	"github.com/dmitrijs2005/scribe/internal/server/metrics"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators a site router needs. Services a site does not
// use may be nil; Metrics is optional.
type Deps struct {
	Logger   logging.Logger
	Metrics  *metrics.Collector
	Cache    *cache.Store
	Users    *services.UserService
	Sessions *services.SessionService
	Posts    *services.PostService
	Wiki     *services.WikiService

	// RequestTimeout bounds every request; zero disables the deadline.
	RequestTimeout time.Duration
}

// handler holds what every site shares: views, logging and the auth flow.
type handler struct {
	title  string
	prefix string // view name prefix, "blog_" or "wiki_"
	deps   Deps
	logger logging.Logger
	views  *views

	// afterLogin is where signup and login redirect on success.
	afterLogin string
}

func newHandler(site, title, afterLogin string, d Deps) (*handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &handler{
		title:      title,
		prefix:     site + "_",
		deps:       d,
		logger:     logger.With("module", site+"_web"),
		views:      v,
		afterLogin: afterLogin,
	}, nil
}

// newRouter installs the middleware stack every site uses, followed by
// extra.
func newRouter(d Deps, extra ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	logger := d.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(d.RequestTimeout))
	}
	if d.Metrics != nil {
		r.Use(Instrument(d.Metrics))
	}
	if d.Sessions != nil {
		r.Use(Authenticate(d.Sessions, logger))
	}
	r.Use(extra...)

	// chi rejects Use after the first route, so routes come last.
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/_metrics", d.Metrics.Handler())
	}

	return r
}

func (h *handler) page(r *http.Request) *page {
	return &page{Title: h.title, User: UserFrom(r.Context())}
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, view string, p *page) {
	if err := h.views.render(w, status, view, p); err != nil {
		h.logger.Error(r.Context(), "render failed", "view", view, "error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "request failed",
		"path", r.URL.Path,
		"requestID", chimiddleware.GetReqID(r.Context()),
		"error", err.Error())

	p := h.page(r)
	p.Title = "Something went wrong"
	p.Error = "Please try again later."
	h.render(w, r, http.StatusInternalServerError, "error", p)
}

func (h *handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	p := h.page(r)
	p.Title = "Bad request"
	p.Error = msg
	h.render(w, r, http.StatusBadRequest, "error", p)
}

// startSession issues a token for user, sets the cookie and redirects to
// afterLogin.
func (h *handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, expires, err := h.deps.Sessions.Issue(r.Context(), user)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	setSessionCookie(w, token, expires)
	http.Redirect(w, r, h.afterLogin, http.StatusFound)
}

func (h *handler) signupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.prefix+"signup", h.page(r))
}

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	form := services.SignupForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Verify:   r.PostFormValue("verify"),
		Email:    r.PostFormValue("email"),
	}

	user, err := h.deps.Users.Signup(r.Context(), form)
	if err != nil {
		var verr *common.ValidationError
		if !errors.As(err, &verr) {
			h.serverError(w, r, err)
			return
		}
		p := h.page(r)
		p.Form = map[string]string{"username": form.Username, "email": form.Email}
		p.Errors = verr.Fields
		h.render(w, r, http.StatusOK, h.prefix+"signup", p)
		return
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.Signups.Inc()
	}

	h.startSession(w, r, user)
}

func (h *handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.prefix+"login", h.page(r))
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")

	user, err := h.deps.Users.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			h.serverError(w, r, err)
			return
		}
		p := h.page(r)
		p.Form = map[string]string{"username": username}
		p.Error = "Invalid credentials. Please try again."
		h.render(w, r, http.StatusOK, h.prefix+"login", p)
		return
	}

	h.startSession(w, r, user)
}

// endSession revokes the session behind the request cookie, if any, and
// clears the cookie.
func (h *handler) endSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		if err := h.deps.Sessions.Revoke(r.Context(), c.Value); err != nil {
			h.logger.Warn(r.Context(), "session revoke failed", "error", err.Error())
		}
	}
	clearSessionCookie(w)
}

// flush clears the whole cache.
func (h *handler) flush(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Cache.Flush(r.Context()); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "cache flushed")
	http.Redirect(w, r, "/", http.StatusFound)
}
