package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	pkgAuth "github.com/shamsoul-ali/THE-VAULT/pkg/auth"
	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

// RoleLookup resolves the profile role for an authenticated user.
type RoleLookup interface {
	RoleFor(ctx context.Context, userID uuid.UUID) (enums.ProfileRole, error)
}

// AdminAuth validates the bearer token and requires the caller's profile to
// carry the admin role.
func AdminAuth(cfg config.AuthConfig, profiles RoleLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	adminRole := enums.ProfileRole(strings.TrimSpace(cfg.AdminRole))
	if adminRole == "" {
		adminRole = enums.ProfileRoleAdmin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Disabled {
				ctx := WithRole(r.Context(), adminRole.String())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid subject"))
				return
			}

			if profiles == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			role, err := profiles.RoleFor(r.Context(), userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Backend(err, "load profile role"))
				return
			}
			if role != adminRole {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}

			ctx := WithUserID(r.Context(), userID.String())
			ctx = WithRole(ctx, role.String())
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    userID.String(),
					"actor_role": role.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
