package controllers

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shamsoul-ali/THE-VAULT/api/responses"
	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

const (
	envHeader          = "X-Vault-Env"
	readyCheckTimeout  = 3 * time.Second
	readyStatusOK      = "ok"
	readyStatusFailing = "failing"
)

// Pinger is anything the readiness probe can reach out to.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and fails with 500 listing the ones
// that did not answer.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := make(map[string]string, len(names))
		var failing []string
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				checks[name] = readyStatusFailing
				failing = append(failing, name)
				if logg != nil {
					logg.Warn(logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()}), "health.ready.dependency_failed")
				}
				continue
			}
			checks[name] = readyStatusOK
		}

		if len(failing) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBackend, "dependencies unavailable: "+strings.Join(failing, ", ")))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
