package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/mixup/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, stores client credentials and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = shared.DefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("Using existing config", "path", configPath)
	} else {
		r.logger.Info("Config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	clientID, clientSecret := cmd.String("client-id"), cmd.String("client-secret")
	if clientID != "" || clientSecret != "" {
		if clientID != "" {
			config.Credentials.Mixcloud.ClientID = clientID
		}
		if clientSecret != "" {
			config.Credentials.Mixcloud.ClientSecret = clientSecret
		}
		if err := shared.SaveConfig(configPath, config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		r.logger.Info("Client credentials saved", "path", configPath)
	}

	if cmd.Bool("rollback") {
		return r.rollbackDatabase(config.Paths.Database)
	}

	r.logger.Info("Initializing database", "path", config.Paths.Database)
	db, err := shared.OpenDatabase(config.Paths.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Database: %s\n", config.Paths.Database)
	if !config.Credentials.Mixcloud.HasClient() {
		r.writePlainln("Next steps:")
		r.writePlain("1. Create an app at https://www.mixcloud.com/developers/ with redirect URI http://localhost/callback\n")
		r.writePlain("2. Run 'mixup setup --client-id ... --client-secret ...'\n")
	}
	return nil
}

// rollbackDatabase reverts the latest schema migration. Rolling back the first one drops the upload history.
func (r *Runner) rollbackDatabase(path string) error {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	r.logger.Warn("Rolling back the latest migration", "path", path)
	if err := shared.RollbackMigration(db); err != nil {
		return err
	}
	return r.writePlain("✓ Rolled back the latest migration of %s\n", path)
}
