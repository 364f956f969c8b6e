package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindungil/n2g/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync on a fixed interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		interval, err := time.ParseDuration(cfg.App.SyncInterval)
		if err != nil {
			return fmt.Errorf("invalid sync_interval: %w", err)
		}
		s, cleanup, err := buildSyncer(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		mgr := worker.NewManager(&worker.SyncWorker{Runner: s, Interval: interval})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigc
			slog.Info("received signal, shutting down", "signal", sig.String())
			cancel()
		}()

		slog.Info("serve: syncing periodically", "interval", interval)
		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
