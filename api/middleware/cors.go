package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// DefaultCORSOrigins apply when VAULT_CORS_ALLOWED_ORIGINS is unset.
var DefaultCORSOrigins = []string{
	"http://localhost:3000", // admin dashboard
	"http://localhost:5173", // vite
	"https://revura.com",
	"https://www.revura.com",
	"https://admin.revura.com",
}

// CORS lets the storefront and admin dashboard call the API from the
// browser. Replayed create responses are flagged through an exposed header
// so the dashboard can tell a retry from a fresh insert.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = DefaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", idempotencyHeader, requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, replayedHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
