package migrate

import (
	"context"
	"fmt"

	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/db"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
)

// MaybeRunDev brings the schema up to date on API start in dev when
// VAULT_AUTO_MIGRATE is set. Postgres runs the embedded goose migrations,
// sqlite gets the gorm-built schema.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "applying sqlite schema (dev auto-run)")
		return client.ApplySQLiteSchema(ctx)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	src := Embedded()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "migrations": src.String()})
	logg.Info(ctx, "migrate.dev_autorun.start")

	if err := Run(ctx, sqlDB, src, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.dev_autorun.complete")
	return nil
}
