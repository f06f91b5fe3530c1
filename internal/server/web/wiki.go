package web

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/services"
	"github.com/go-chi/chi/v5"
)

var pageRe = regexp.MustCompile(`^(/(?:[a-zA-Z0-9_-]+/?)*)$`)

type wikiHandler struct {
	*handler
	wiki *services.WikiService
}

// NewWikiRouter serves the wiki. Every path not claimed by another route
// is a page.
func NewWikiRouter(d Deps) (http.Handler, error) {
	base, err := newHandler("wiki", "Wiki", "/", d)
	if err != nil {
		return nil, err
	}
	h := &wikiHandler{handler: base, wiki: d.Wiki}

	r := newRouter(d)

	r.Get("/signup", h.signupForm)
	r.Post("/signup", h.signup)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/flush", h.flush)

	r.Get("/logout", h.logout)
	r.Get("/logout/*", h.logout)
	r.Get("/_edit/*", h.editForm)
	r.Post("/_edit/*", h.edit)
	r.Get("/_history/*", h.history)
	r.Get("/*", h.view)

	return r, nil
}

// pagePath turns the wildcard of the matched route into a page path. ok is
// false when the path has characters pages may not use.
func pagePath(r *http.Request) (path string, ok bool) {
	path = "/" + chi.URLParam(r, "*")
	return path, pageRe.MatchString(path)
}

// revision loads the revision selected by ?v=. It writes the response and
// returns false on anything but success or not-found.
func (h *wikiHandler) revision(w http.ResponseWriter, r *http.Request, path string) (*models.Revision, bool) {
	rev, err := h.wiki.GetVersion(r.Context(), path, r.URL.Query().Get("v"))
	switch {
	case err == nil:
		return rev, true
	case errors.Is(err, common.ErrorNotFound):
		return nil, true
	case errors.Is(err, common.ErrorValidation):
		h.badRequest(w, r, services.MsgInvalidVersion)
	default:
		h.serverError(w, r, err)
	}
	return nil, false
}

func (h *wikiHandler) view(w http.ResponseWriter, r *http.Request) {
	path, ok := pagePath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rev, ok := h.revision(w, r, path)
	if !ok {
		return
	}
	if rev == nil {
		if UserFrom(r.Context()) != nil {
			http.Redirect(w, r, "/_edit"+path, http.StatusFound)
		} else {
			http.Redirect(w, r, "/login", http.StatusFound)
		}
		return
	}

	p := h.page(r)
	p.Path = path
	p.Revision = rev
	h.render(w, r, http.StatusOK, "wiki_page", p)
}

func (h *wikiHandler) editForm(w http.ResponseWriter, r *http.Request) {
	path, ok := pagePath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if UserFrom(r.Context()) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	rev, ok := h.revision(w, r, path)
	if !ok {
		return
	}

	p := h.page(r)
	p.Path = path
	p.Revision = rev
	if rev != nil {
		p.Form = map[string]string{"content": rev.Content}
	}
	h.render(w, r, http.StatusOK, "wiki_edit", p)
}

func (h *wikiHandler) edit(w http.ResponseWriter, r *http.Request) {
	path, ok := pagePath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user := UserFrom(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	_, err := h.wiki.Edit(r.Context(), path, r.PostFormValue("content"), user.UserName)
	if err != nil {
		var verr *common.ValidationError
		if !errors.As(err, &verr) {
			h.serverError(w, r, err)
			return
		}
		p := h.page(r)
		p.Path = path
		p.Error = verr.Fields["content"]
		h.render(w, r, http.StatusOK, "wiki_edit", p)
		return
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.WikiEdits.Inc()
	}

	http.Redirect(w, r, path, http.StatusFound)
}

func (h *wikiHandler) history(w http.ResponseWriter, r *http.Request) {
	path, ok := pagePath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	history, err := h.wiki.History(r.Context(), path)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	newestFirst := make([]*models.Revision, len(history))
	for i, rev := range history {
		newestFirst[len(history)-1-i] = rev
	}

	p := h.page(r)
	p.Path = path
	p.History = newestFirst
	h.render(w, r, http.StatusOK, "wiki_history", p)
}

func (h *wikiHandler) logout(w http.ResponseWriter, r *http.Request) {
	path, ok := pagePath(r)
	if !ok {
		path = "/"
	}
	h.endSession(w, r)
	http.Redirect(w, r, path, http.StatusFound)
}
