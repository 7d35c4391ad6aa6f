package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. An upload that panics
// mid-stream still gets a response unless headers were already flushed.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":       fmt.Sprint(rec),
						"method":      r.Method,
						"path":        r.URL.Path,
						"panic_stack": string(debug.Stack()),
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected failure handling "+r.Method+" "+r.URL.Path))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
