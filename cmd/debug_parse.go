package cmd

import (
	"fmt"
	"sort"

	"github.com/mindungil/n2g/internal/jekyll"
	"github.com/mindungil/n2g/internal/markdown"

	"github.com/spf13/cobra"
)

var debugParseCmd = &cobra.Command{
	Use:   "debug-parse <markdown_path>",
	Short: "Debug: parse a post and print its page id and frontmatter keys",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := markdown.ParseFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		keys := make([]string, 0, len(doc.Frontmatter))
		for k := range doc.Frontmatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		id := doc.String(jekyll.IDKey, "")
		if id == "" {
			id = "(none)"
		}
		fmt.Fprintf(out, "page id: %s\n", id)
		fmt.Fprintf(out, "frontmatter keys: ")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(out, ", ")
			}
			fmt.Fprint(out, k)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "images: %d\n", len(markdown.FindImages(doc.Body)))
		fmt.Fprintf(out, "body bytes: %d\n", len(doc.Body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugParseCmd)
}
