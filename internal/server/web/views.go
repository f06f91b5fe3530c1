package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/server/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// page is the data handed to every template. Handlers fill in what the
// template they render needs.
type page struct {
	Title string
	User  *models.User
	Path  string

	// Form echoes submitted values back into the form.
	Form   map[string]string
	Errors map[string]string
	Error  string

	Posts    []*models.Post
	Age      time.Duration
	Revision *models.Revision
	History  []*models.Revision
	Text     string
}

var templateFuncs = template.FuncMap{
	"date":    func(t time.Time) string { return t.Format(common.DateLayout) },
	"seconds": func(d time.Duration) int64 { return int64(d / time.Second) },
	// Wiki pages are authored as HTML.
	"raw": func(s string) template.HTML { return template.HTML(s) },
}

// viewFiles lists the files composing each named view, base layout first.
var viewFiles = map[string][]string{
	"blog_front":   {"base.html", "blog_nav.html", "blog_front.html"},
	"blog_newpost": {"base.html", "blog_nav.html", "blog_newpost.html"},
	"blog_welcome": {"base.html", "blog_nav.html", "welcome.html"},
	"blog_signup":  {"base.html", "blog_nav.html", "signup.html"},
	"blog_login":   {"base.html", "blog_nav.html", "login.html"},
	"wiki_page":    {"base.html", "wiki_nav.html", "wiki_page.html"},
	"wiki_edit":    {"base.html", "wiki_nav.html", "wiki_edit.html"},
	"wiki_history": {"base.html", "wiki_nav.html", "wiki_history.html"},
	"wiki_signup":  {"base.html", "wiki_nav.html", "signup.html"},
	"wiki_login":   {"base.html", "wiki_nav.html", "login.html"},
	"rot13":        {"base.html", "rot13.html"},
	"error":        {"base.html", "error.html"},
}

type views struct {
	templates map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{templates: make(map[string]*template.Template, len(viewFiles))}
	for name, files := range viewFiles {
		patterns := make([]string, len(files))
		for i, f := range files {
			patterns[i] = "templates/" + f
		}
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		v.templates[name] = t
	}
	return v, nil
}

// render executes the view into a buffer first so a template failure never
// leaves a half-written page behind.
func (v *views) render(w http.ResponseWriter, status int, name string, data *page) error {
	t, ok := v.templates[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
