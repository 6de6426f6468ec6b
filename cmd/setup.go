package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/reconcile/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes config.toml from the template when missing, then runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using current settings", "error", err)
			}
		}
	}

	if r.config.Database.Driver != shared.DriverSQLite {
		r.logger.Info("embedded migrations target sqlite; gorm will auto-migrate on first sync", "driver", r.config.Database.Driver)
		return r.writePlainln("✓ Nothing to migrate for %s", r.config.Database.Driver)
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.openSQLite(true)
	if err != nil {
		return err
	}
	defer r.closeQuietly(db)

	applied, err := shared.MigrationStatus(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlainln("✓ Database ready at %s (%d migrations applied)", r.config.Database.Path, len(applied))
}

// SetupRollback reverts the latest migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireSQLite(false)
	if err != nil {
		return err
	}
	defer r.closeQuietly(db)

	migration, err := shared.RollbackMigration(db)
	if err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}

	r.logger.Info("rolled back migration", "version", migration.Version, "name", migration.Name)
	return r.writePlainln("✓ Rolled back %04d_%s", migration.Version, migration.Name)
}

// SetupStatus lists applied migrations.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireSQLite(false)
	if err != nil {
		return err
	}
	defer r.closeQuietly(db)

	applied, err := shared.MigrationStatus(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(applied, true)
	}

	for _, m := range applied {
		if err := r.writePlainln("%04d  applied %s", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	return nil
}
