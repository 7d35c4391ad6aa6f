package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const unmatchedRoute = "unmatched"

type requestObserver interface {
	Observe(method, route string, status int, d time.Duration)
}

// Metrics records request counts and latency keyed by the chi route pattern
// so path parameters do not explode label cardinality. Requests no route
// matched share one label.
func Metrics(observer requestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == "" {
				route = unmatchedRoute
			}
			observer.Observe(r.Method, route, rec.Status(), time.Since(start))
		})
	}
}

// routePattern is only complete once the router has dispatched, so callers
// read it after next.ServeHTTP returns.
func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		return ctx.RoutePattern()
	}
	return ""
}
