package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/mindungil/n2g/internal/post"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List pages currently flagged for deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		pages, err := newNotionClient(cfg).QueryFlagged(ctx, cfg.Notion.DatabaseID, cfg.Notion.DeployProp)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tLAST EDITED")
		for _, p := range pages {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, post.Title(p.Properties, cfg.Notion.TitleKeys), p.LastEditedTime)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d page(s) flagged\n", len(pages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
