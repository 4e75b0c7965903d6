package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotctl/internal/shared"
)

// Setup creates the config file when missing, then initializes the history database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("✓ Config written to %s\n", configPath)
		r.writePlain("Set client_id and client_secret (or %s and %s) before running 'spotctl auth login'\n",
			shared.EnvClientID, shared.EnvClientSecret)

		if r.config, err = shared.ResolveConfig(configPath); err != nil {
			return err
		}
	}

	if r.config.Database.Path == "" {
		return r.writePlain("Command history disabled (database.path is empty)\n")
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	version, err := shared.SchemaVersion(db)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Database ready at %s (schema version %d)\n", r.config.Database.Path, version)
}
