package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/render"
)

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeHTML renders a component with a 200 status.
func writeHTML(w http.ResponseWriter, r *http.Request, c templ.Component) {
	templ.Handler(c).ServeHTTP(w, r)
}
