package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/crawldigest/internal/config"
	"github.com/nao1215/crawldigest/internal/database"
	"github.com/nao1215/crawldigest/internal/report"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// errNoArchive is returned when no run has been archived yet.
var errNoArchive = errors.New("no archive found (run crawl with --archive first)")

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived crawl runs",
		Long: `History lists the runs saved with "crawl --archive", newest first.

Run IDs may be abbreviated to any unique prefix.

Examples:
  # List the 20 most recent runs
  crawldigest history

  # Render an archived run again as GFM
  crawldigest history show 3f2a -f gfm

  # Remove a run from the archive
  crawldigest history delete 3f2a`,
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}

	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the archive database")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Render an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}

	cmd.Flags().StringP(config.FlagFormat, "f", config.DefaultFormat,
		fmt.Sprintf("Output format %v", report.Formats()))
	cmd.Flags().StringP(config.FlagOutput, "o", "",
		"Write the document to this file")

	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
}

// openArchive opens the existing archive named by the db-dir flag.
func openArchive(cmd *cobra.Command) (*database.CrawlDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(dbDir, database.DBFileName)); os.IsNotExist(err) {
		return nil, errNoArchive
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return db, nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openArchive(cmd)
	if errors.Is(err, errNoArchive) {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived runs.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	return listRuns(cmd.Context(), db, limit, cmd.OutOrStdout())
}

// listRuns prints one line per archived run.
func listRuns(ctx context.Context, db *database.CrawlDB, limit int, out io.Writer) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No archived runs.")
		return nil
	}

	fmt.Fprintf(out, "Archived runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-8s  %-19s  %5s  %8s  %s\n", "ID", "Started", "Pages", "Failures", "Seeds")
	for _, run := range runs {
		fmt.Fprintf(out, "  %-8s  %-19s  %5d  %8d  %s\n",
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.PagesCrawled,
			run.Failures,
			strings.Join(run.Seeds, " "),
		)
	}

	return nil
}

// shortID abbreviates a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString(config.FlagFormat)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString(config.FlagOutput)
	if err != nil {
		return err
	}

	renderer, err := report.New(format)
	if err != nil {
		return err
	}

	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	id, err := db.ResolveRunID(ctx, args[0])
	if err != nil {
		return err
	}

	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("%w: %s", database.ErrRunNotFound, id)
	}

	content, err := renderer.Render(run.Records)
	if err != nil {
		return err
	}

	if output != "" {
		if err := report.WriteFile(output, content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", output)
		return nil
	}

	_, err = io.WriteString(cmd.OutOrStdout(), content)
	return err
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	id, err := db.ResolveRunID(ctx, args[0])
	if err != nil {
		return err
	}
	if err := db.DeleteRun(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", id)
	return nil
}
