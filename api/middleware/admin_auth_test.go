package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/auth"
	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

type stubRoles struct {
	roles map[uuid.UUID]enums.ProfileRole
	err   error
}

func (s stubRoles) RoleFor(_ context.Context, userID uuid.UUID) (enums.ProfileRole, error) {
	if s.err != nil {
		return "", s.err
	}
	role, ok := s.roles[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return role, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "secret", JWTIssuer: "revura", AdminRole: "admin"}
}

func mintTestToken(t *testing.T, cfg config.AuthConfig, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), userID, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func serveAdmin(cfg config.AuthConfig, roles RoleLookup, req *http.Request) (*httptest.ResponseRecorder, string) {
	var seenUser string
	handler := AdminAuth(cfg, roles, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp, seenUser
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/cars/x", nil)
	resp, _ := serveAdmin(testAuthConfig(), stubRoles{}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminAuthRejectsInvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/cars/x", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp, _ := serveAdmin(testAuthConfig(), stubRoles{}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminAuthRoleChecks(t *testing.T) {
	cfg := testAuthConfig()
	admin := uuid.New()
	member := uuid.New()
	roles := stubRoles{roles: map[uuid.UUID]enums.ProfileRole{
		admin:  enums.ProfileRoleAdmin,
		member: enums.ProfileRoleUser,
	}}

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, admin))
		resp, seen := serveAdmin(cfg, roles, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
		if seen != admin.String() {
			t.Fatalf("expected user %s in context got %q", admin, seen)
		}
	})

	t.Run("non admin forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, member))
		resp, _ := serveAdmin(cfg, roles, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", resp.Code)
		}
	})

	t.Run("missing profile forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, uuid.New()))
		resp, _ := serveAdmin(cfg, roles, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 got %d", resp.Code)
		}
	})

	t.Run("profile lookup failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, admin))
		resp, _ := serveAdmin(cfg, stubRoles{err: errors.New("connection refused")}, req)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 got %d", resp.Code)
		}
	})
}

func TestAdminAuthWrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	other := cfg
	other.JWTIssuer = "someone-else"
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintTestToken(t, other, userID))
	resp, _ := serveAdmin(cfg, stubRoles{roles: map[uuid.UUID]enums.ProfileRole{userID: enums.ProfileRoleAdmin}}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminAuthDisabledBypass(t *testing.T) {
	cfg := config.AuthConfig{Disabled: true, AdminRole: "admin"}
	var role string
	handler := AdminAuth(cfg, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if role != "admin" {
		t.Fatalf("expected admin role in context, got %q", role)
	}
}
