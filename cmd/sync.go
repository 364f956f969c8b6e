package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mindungil/n2g/internal/ai"
	"github.com/mindungil/n2g/internal/assets"
	"github.com/mindungil/n2g/internal/config"
	"github.com/mindungil/n2g/internal/notion"
	"github.com/mindungil/n2g/internal/post"
	"github.com/mindungil/n2g/internal/redisclient"
	"github.com/mindungil/n2g/internal/storage"
	"github.com/mindungil/n2g/internal/syncer"

	"github.com/spf13/cobra"
)

var syncPageID string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write every flagged page as a post, then clear its flag",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		s, cleanup, err := buildSyncer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		if syncPageID != "" {
			rec, err := s.SyncPage(ctx, syncPageID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s written=%t flag_reset=%t\n", rec.Path, rec.Written, rec.FlagReset)
			return nil
		}
		rep, err := s.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Done. %d file(s) updated\n", rep.Updated)
		return nil
	},
}

func newNotionClient(cfg config.Config) *notion.Client {
	return notion.New(cfg.Notion.BaseURL, cfg.Notion.Token, cfg.Notion.Version, 60*time.Second).
		WithPageSize(cfg.Notion.PageSize)
}

// buildSyncer wires the pipeline from configuration. The returned cleanup
// releases the optional Redis connection.
func buildSyncer(cfg config.Config) (*syncer.Syncer, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	fetcher := assets.NewFetcher(assets.Options{
		UserAgent:   cfg.Site.UserAgent,
		ConvertWebP: cfg.Site.ConvertWebP,
		WebPQuality: cfg.Site.WebPQuality,
	})
	s := syncer.New(newNotionClient(cfg), fetcher, syncer.Options{
		DatabaseID:    cfg.Notion.DatabaseID,
		DeployProp:    cfg.Notion.DeployProp,
		PostsDir:      cfg.Site.PostsDir,
		AssetDir:      cfg.Site.AssetDir,
		DownloadCover: cfg.Site.DownloadCover,
		Language:      cfg.OpenAI.Language,
		Rules:         post.RulesFromConfig(cfg, loc),
	})

	cleanup := func() {}
	if redisclient.Enabled(cfg.Redis) {
		rdb := redisclient.New(cfg.Redis)
		cleanup = func() { _ = rdb.Close() }
		s.WithLedger(storage.NewRedisStore(rdb))
		slog.Info("sync: ledger enabled", "addr", cfg.Redis.Addr)
	}
	if cfg.OpenAI.APIKey != "" {
		d, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		s.WithDescriber(d)
		slog.Info("sync: descriptions enabled", "model", cfg.OpenAI.Model)
	}
	return s, cleanup, nil
}

func init() {
	syncCmd.Flags().StringVar(&syncPageID, "page", "", "sync a single page by id instead of querying the flag")
	rootCmd.AddCommand(syncCmd)
}
