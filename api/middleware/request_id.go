package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Client supplied ids are echoed only when they look like a token, so a
// caller cannot inject newlines or kilobytes into every log line.
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
