package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avasalony-boop/policy-tracker/engine/infra/postgres"
	"github.com/avasalony-boop/policy-tracker/engine/infra/server"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read API over stored bills",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupCommand(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := postgres.NewStore(ctx, postgresConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer store.Close(ctx)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := server.New(addr, postgres.NewBillRepo(store.Pool()), store)
			return srv.Run(ctx)
		},
	}
}
