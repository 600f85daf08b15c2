package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/squadcast/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
//
// When the config file does not exist it is created from the embedded template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else if config, err := shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", configPath)
				r.config = config
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("%s\n", r.palette.OK("✓ Database ready: "+r.config.Database.Path))
}

// SetupConfig writes the embedded default config to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if r.configPath == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}

	r.writePlain("%s\n", r.palette.OK("✓ Config written: "+r.configPath))
	return r.writePlain("%s\n", r.palette.Help("Set security.encryption_key or "+shared.EncryptionKeyEnv+" before adding credentials."))
}

// SetupStatus prints the applied migrations.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.open(); err != nil {
		return err
	}

	applied, err := shared.MigrationStatus(r.db)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(applied))
	for _, m := range applied {
		rows = append(rows, []string{fmt.Sprintf("%04d", m.Version), m.Name, m.AppliedAt.Format("2006-01-02 15:04:05")})
	}

	r.writePlain("%s\n", r.palette.Title(r.config.Database.Path+": "+strconv.Itoa(len(applied))+" migrations"))
	return r.writePlain("%s\n", r.palette.Table([]string{"Version", "Name", "Applied"}, rows))
}

// SetupRollback reverts the latest migration without reapplying it.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	m, err := shared.RollbackMigration(db)
	if err != nil {
		return err
	}

	r.logger.Warn("migration rolled back", "version", m.Version, "name", m.Name)
	return r.writePlain("%s\n", r.palette.Warn(fmt.Sprintf("Rolled back %04d_%s", m.Version, m.Name)))
}
