package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mindungil/n2g/internal/model"
	"github.com/mindungil/n2g/internal/redisclient"
	"github.com/mindungil/n2g/internal/storage"

	"github.com/spf13/cobra"
)

var lastLimit int

// lastCmd prints the ledger record of one page, or the most recent syncs.
var lastCmd = &cobra.Command{
	Use:   "last [page_id]",
	Short: "Show the last sync record of a page, or the latest records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if !redisclient.Enabled(cfg.Redis) {
			return errRedisDisabled
		}
		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			rec, ok, err := store.Last(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no sync record for %s", args[0])
			}
			printRecord(out, rec)
			return nil
		}
		recs, err := store.Recent(ctx, lastLimit)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			printRecord(out, rec)
		}
		return nil
	},
}

func printRecord(w io.Writer, rec model.SyncRecord) {
	fmt.Fprintf(w, "%s  %s  written=%t flag_reset=%t last_edited=%s path=%s\n",
		rec.SyncedAt.Local().Format(time.RFC3339), rec.PageID, rec.Written, rec.FlagReset, rec.LastEdited, rec.Path)
}

func init() {
	lastCmd.Flags().IntVarP(&lastLimit, "limit", "n", 10, "number of records to list when no page id is given")
	redisCmd.AddCommand(lastCmd)
}
