// Package cli wires the policy-tracker commands: database migration, the
// collection run, the read API server and the effective-date digest.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/avasalony-boop/policy-tracker/pkg/config"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "policy-tracker",
		Short:         "Track legislative and regulatory records across sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "emit logs as JSON")

	root.AddCommand(
		MigrateCmd(),
		CollectCmd(),
		ServeCmd(),
		DigestCmd(),
	)

	return root
}

// setupCommand loads .env, configures logging from the persistent flags and
// returns a context carrying the logger plus the loaded configuration.
func setupCommand(cmd *cobra.Command) (context.Context, *config.Config, error) {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	logLevel, logJSON, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger.SetupLogger(logLevel, logJSON)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx := logger.ContextWithLogger(cmd.Context(), logger.GetDefault())
	return ctx, cfg, nil
}
