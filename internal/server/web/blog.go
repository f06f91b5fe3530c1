package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/server/models"
	"github.com/dmitrijs2005/scribe/internal/server/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type blogHandler struct {
	*handler
	posts *services.PostService
}

// NewBlogRouter serves the blog.
func NewBlogRouter(d Deps) (http.Handler, error) {
	base, err := newHandler("blog", "Blog", "/welcome", d)
	if err != nil {
		return nil, err
	}
	h := &blogHandler{handler: base, posts: d.Posts}

	r := newRouter(d, chimiddleware.StripSlashes)

	r.Get("/", h.front)
	r.Get("/json", h.frontJSON)
	r.Get("/flush", h.flush)

	r.Get("/signup", h.signupForm)
	r.Post("/signup", h.signup)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)
	r.Get("/welcome", h.welcome)

	r.Get("/newpost", h.newPostForm)
	r.Post("/newpost", h.newPost)

	r.Route("/{id:[0-9]+}", func(r chi.Router) {
		r.Get("/", h.post)
		r.Get("/json", h.postJSON)
		r.Get("/flush", h.forget)
	})

	return r, nil
}

type postJSON struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
	Created string `json:"created"`
}

func writePostsJSON(w http.ResponseWriter, posts []*models.Post) error {
	out := make([]postJSON, 0, len(posts))
	for _, p := range posts {
		out = append(out, postJSON{
			Subject: p.Subject,
			Content: p.Content,
			Created: p.CreatedAt.Format(common.DateLayout),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	return json.NewEncoder(w).Encode(out)
}

func (h *blogHandler) front(w http.ResponseWriter, r *http.Request) {
	posts, age, err := h.posts.Recent(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	p := h.page(r)
	p.Posts = posts
	p.Age = age
	h.render(w, r, http.StatusOK, "blog_front", p)
}

func (h *blogHandler) frontJSON(w http.ResponseWriter, r *http.Request) {
	posts, _, err := h.posts.Recent(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if err := writePostsJSON(w, posts); err != nil {
		h.logger.Warn(r.Context(), "json write failed", "error", err.Error())
	}
}

// lookup resolves the {id} parameter. It redirects to the front page and
// returns nil when the post does not exist.
func (h *blogHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Post, *page) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return nil, nil
	}

	post, age, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
		} else {
			h.serverError(w, r, err)
		}
		return nil, nil
	}

	p := h.page(r)
	p.Posts = []*models.Post{post}
	p.Age = age
	return post, p
}

func (h *blogHandler) post(w http.ResponseWriter, r *http.Request) {
	if post, p := h.lookup(w, r); post != nil {
		h.render(w, r, http.StatusOK, "blog_front", p)
	}
}

func (h *blogHandler) postJSON(w http.ResponseWriter, r *http.Request) {
	if post, _ := h.lookup(w, r); post != nil {
		if err := writePostsJSON(w, []*models.Post{post}); err != nil {
			h.logger.Warn(r.Context(), "json write failed", "error", err.Error())
		}
	}
}

func (h *blogHandler) forget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		h.posts.Forget(r.Context(), n)
	}
	http.Redirect(w, r, "/"+id, http.StatusFound)
}

func (h *blogHandler) newPostForm(w http.ResponseWriter, r *http.Request) {
	if UserFrom(r.Context()) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "blog_newpost", h.page(r))
}

func (h *blogHandler) newPost(w http.ResponseWriter, r *http.Request) {
	if UserFrom(r.Context()) == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	form := services.PostForm{
		Subject: r.PostFormValue("subject"),
		Content: r.PostFormValue("content"),
	}
	id, err := h.posts.Create(r.Context(), form)
	if err != nil {
		var verr *common.ValidationError
		if !errors.As(err, &verr) {
			h.serverError(w, r, err)
			return
		}
		p := h.page(r)
		p.Form = map[string]string{"subject": form.Subject, "content": form.Content}
		p.Error = services.MsgPostIncomplete
		h.render(w, r, http.StatusOK, "blog_newpost", p)
		return
	}
	if h.deps.Metrics != nil {
		h.deps.Metrics.PostsCreated.Inc()
	}

	http.Redirect(w, r, "/"+strconv.FormatInt(id, 10), http.StatusFound)
}

func (h *blogHandler) welcome(w http.ResponseWriter, r *http.Request) {
	if UserFrom(r.Context()) == nil {
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "blog_welcome", h.page(r))
}

func (h *blogHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}
