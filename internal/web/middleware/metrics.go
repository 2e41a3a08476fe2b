package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// RequestObserver is implemented by *metrics.Metrics.
type RequestObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	TrackInFlight() func()
}

// Metrics records each request under its chi route pattern
// ("/api/view", not "/api/view?dataset=...") to keep label cardinality low.
func Metrics(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := obs.TrackInFlight()
			defer done()

			start := time.Now()
			ww := wrap(w)
			next.ServeHTTP(ww, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			obs.ObserveHTTP(r.Method, route, ww.status, time.Since(start))
		})
	}
}
