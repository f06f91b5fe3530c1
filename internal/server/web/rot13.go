package web

import (
	"net/http"
	"strings"
)

// Rot13 rotates ASCII letters by 13 places and leaves everything else,
// including non-ASCII letters, unchanged.
func Rot13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		}
		return r
	}, s)
}

type rot13Handler struct {
	*handler
}

// NewRot13Router serves the rot13 form. The result is re-rendered into the
// textarea, escaped by the template.
func NewRot13Router(d Deps) (http.Handler, error) {
	base, err := newHandler("rot13", "Rot13", "/", d)
	if err != nil {
		return nil, err
	}
	h := &rot13Handler{handler: base}

	r := newRouter(d)
	r.Get("/", h.form)
	r.Post("/", h.convert)

	return r, nil
}

func (h *rot13Handler) form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "rot13", h.page(r))
}

func (h *rot13Handler) convert(w http.ResponseWriter, r *http.Request) {
	p := h.page(r)
	p.Text = Rot13(r.PostFormValue("text"))
	h.render(w, r, http.StatusOK, "rot13", p)
}
