package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avasalony-boop/policy-tracker/engine/infra/postgres"
	"github.com/avasalony-boop/policy-tracker/pkg/config"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupCommand(cmd)
			if err != nil {
				return err
			}
			if err := postgres.ApplyMigrations(ctx, postgresConfig(cfg)); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			logger.FromContext(ctx).Info("Migrations applied")
			return nil
		},
	}
}

// postgresConfig maps the loaded configuration onto the driver config.
func postgresConfig(cfg *config.Config) *postgres.Config {
	return &postgres.Config{
		ConnString:   cfg.Database.ConnString,
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		DBName:       cfg.Database.Name,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		PingTimeout:  cfg.Database.PingTimeout,
	}
}
