package web

import (
	"io"
	"net/http"
)

// NewHelloRouter serves the starter site.
func NewHelloRouter(d Deps) (http.Handler, error) {
	r := newRouter(d)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "HelloWorld!")
	})
	return r, nil
}
