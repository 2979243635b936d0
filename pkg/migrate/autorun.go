package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/config"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/db"
	"github.com/kamaralam1984/8rupiyadotcom-sub007/pkg/logger"
)

// MaybeRunDev applies pending migrations when running in dev with
// RUPIYA_AUTO_MIGRATE enabled. SQLite databases are skipped because the
// migrations target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	if strings.EqualFold(cfg.DB.Driver, db.DriverSQLite) {
		logg.Warn(ctx, "skipping goose auto-run for sqlite")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
