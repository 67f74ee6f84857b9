package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avasalony-boop/policy-tracker/engine/infra/postgres"
	"github.com/avasalony-boop/policy-tracker/engine/notify"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

func DigestCmd() *cobra.Command {
	var windowDays int

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send a digest of bills that became effective in the trailing window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupCommand(cmd)
			if err != nil {
				return err
			}
			if windowDays < 1 {
				return fmt.Errorf("--window must be at least 1 day")
			}
			log := logger.FromContext(ctx)

			store, err := postgres.NewStore(ctx, postgresConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer store.Close(ctx)

			today := time.Now().UTC()
			start := today.AddDate(0, 0, -windowDays).Format("2006-01-02")
			end := today.Format("2006-01-02")

			repo := postgres.NewBillRepo(store.Pool())
			rows, err := repo.EffectiveBetween(ctx, start, end)
			if err != nil {
				return fmt.Errorf("failed to query effective window: %w", err)
			}

			// An empty window still produces a notice so the channel knows
			// the digest ran.
			sender := notify.NewSender(cfg.Slack.WebhookURL)
			if err := sender.Send(ctx, notify.EffectiveDigestMessage(rows, windowDays)); err != nil {
				return fmt.Errorf("failed to send digest: %w", err)
			}
			log.Info("Effective-date digest sent", "bills", len(rows), "window_days", windowDays)
			return nil
		},
	}

	cmd.Flags().IntVar(&windowDays, "window", 7, "number of trailing days to include")
	return cmd
}
