package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avasalony-boop/policy-tracker/engine/infra/postgres"
	"github.com/avasalony-boop/policy-tracker/engine/ingest"
	"github.com/avasalony-boop/policy-tracker/engine/notify"
	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/avasalony-boop/policy-tracker/engine/provider/openstates"
	"github.com/avasalony-boop/policy-tracker/engine/provider/rssfeed"
	"github.com/avasalony-boop/policy-tracker/pkg/config"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

func CollectCmd() *cobra.Command {
	var (
		since        string
		query        string
		states       []string
		feedsPath    string
		dryRun       bool
		noOpenStates bool
		noRSS        bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch records from configured sources and store them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setupCommand(cmd)
			if err != nil {
				return err
			}
			log := logger.FromContext(ctx)

			store, err := postgres.NewStore(ctx, postgresConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer store.Close(ctx)

			sources, err := buildSources(cfg, collectFlags{
				since:        since,
				query:        query,
				states:       states,
				feedsPath:    feedsPath,
				noOpenStates: noOpenStates,
				noRSS:        noRSS,
			})
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				return fmt.Errorf("no sources enabled; provide an OpenStates API key or a feeds file")
			}

			notifier := notify.New(notify.NewSender(cfg.Slack.WebhookURL), dryRun || cfg.Ingest.DryRun)
			pipeline := ingest.New(postgres.NewBillRepo(store.Pool()), notifier)

			summary, err := pipeline.Run(ctx, sources...)
			if err != nil {
				return err
			}
			log.Info("Collection run finished",
				"processed", summary.Processed,
				"failed", summary.Failed,
				"transitions", summary.Transitions,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "only fetch records updated on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query, "query", "", "override the OpenStates search query")
	cmd.Flags().StringSliceVar(&states, "state", nil, "jurisdictions to fetch (repeatable)")
	cmd.Flags().StringVar(&feedsPath, "feeds", "", "path to the RSS feeds file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count transitions without sending notifications")
	cmd.Flags().BoolVar(&noOpenStates, "no-openstates", false, "skip the OpenStates source")
	cmd.Flags().BoolVar(&noRSS, "no-rss", false, "skip the RSS feeds source")
	return cmd
}

type collectFlags struct {
	since        string
	query        string
	states       []string
	feedsPath    string
	noOpenStates bool
	noRSS        bool
}

func buildSources(cfg *config.Config, flags collectFlags) ([]provider.Source, error) {
	var sources []provider.Source
	if !flags.noOpenStates && cfg.OpenStates.APIKey != "" {
		src, err := openStatesSource(cfg, flags)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if !flags.noRSS {
		path := flags.feedsPath
		if path == "" {
			path = cfg.Ingest.FeedsPath
		}
		feeds, err := rssfeed.LoadFeeds(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load feeds from %s: %w", path, err)
		}
		if len(feeds) > 0 {
			sources = append(sources, rssfeed.New(feeds))
		}
	}
	return sources, nil
}

func openStatesSource(cfg *config.Config, flags collectFlags) (provider.Source, error) {
	since := flags.since
	if since == "" {
		since = time.Now().UTC().AddDate(0, 0, -cfg.OpenStates.SinceDays).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", since); err != nil {
		return nil, fmt.Errorf("invalid --since date %q: %w", since, err)
	}
	query := flags.query
	if query == "" {
		query = cfg.OpenStates.Query
	}
	states := flags.states
	if len(states) == 0 {
		states = cfg.OpenStates.Jurisdictions
	}
	return openstates.New(openstates.Config{
		APIKey:        cfg.OpenStates.APIKey,
		BaseURL:       cfg.OpenStates.BaseURL,
		Query:         query,
		Jurisdictions: states,
		UpdatedSince:  since,
		PerPage:       cfg.OpenStates.PerPage,
	}), nil
}
