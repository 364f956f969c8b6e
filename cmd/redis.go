package cmd

import "github.com/spf13/cobra"

// redisCmd groups commands that inspect the sync ledger.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Sync ledger utilities",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
