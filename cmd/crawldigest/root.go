package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crawldigest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawldigest",
		Short: "Crawl web pages and write a digest of their content",
		Long: `crawldigest visits web pages breadth-first from one or more seed URLs,
up to a page budget, and extracts each page's title, description, headings,
paragraphs, lists and tables into a single Markdown, text, GFM or JSON document.

Finished runs can be archived locally and re-rendered later with the
history command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
