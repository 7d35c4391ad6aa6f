package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSDefaultsAllowDashboard(t *testing.T) {
	handler := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cars/1/gallery", nil)
	req.Header.Set("Origin", "https://admin.revura.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.revura.com" {
		t.Fatalf("expected dashboard origin to be allowed, got %q", got)
	}
	if exposed := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(exposed, replayedHeader) {
		t.Fatalf("expected %s to be exposed, got %q", replayedHeader, exposed)
	}
}

func TestCORSConfiguredOriginsReplaceDefaults(t *testing.T) {
	handler := CORS([]string{"https://staging.revura.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for origin, allowed := range map[string]bool{
		"https://staging.revura.com": true,
		"https://admin.revura.com":   false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/cars/1", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin") == origin; got != allowed {
			t.Fatalf("origin %s allowed=%v, want %v", origin, got, allowed)
		}
	}
}
