package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/crawldigest/internal/config"
	"github.com/nao1215/crawldigest/internal/database"
	cdlog "github.com/nao1215/crawldigest/internal/log"
	"github.com/nao1215/crawldigest/internal/model"
	"github.com/nao1215/crawldigest/internal/pipeline"
	"github.com/nao1215/crawldigest/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url...]",
		Short: "Crawl pages from seed URLs and write a digest",
		Long: `Crawl visits pages breadth-first starting from the given seed URLs.

Every visited page contributes its title, meta description, headings,
paragraphs, lists and tables to the output document. Links found on a page
are queued unless they were seen before or point to anchors, mailto:,
tel: or javascript: targets. The crawl stops when no URL is left or the
page budget is used up; pages that fail to load count toward the budget.

Examples:
  # Crawl up to 10 pages and print Markdown
  crawldigest crawl https://example.com/

  # Crawl 50 pages and write JSON to a file
  crawldigest crawl -p 50 -f json -o digest.json https://example.com/

  # Keep the run in the local archive
  crawldigest crawl -a https://example.com/

Configuration file (.crawldigest) example:
  seeds:
    - https://example.com/
  pageBudget: 25
  sites:
    example.com:
      cookie: "session_id=abc123"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().IntP(config.FlagMaxPages, "p", config.DefaultPageBudget,
		"Maximum number of pages to visit")
	cmd.Flags().DurationP(config.FlagTimeout, "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().StringP(config.FlagFormat, "f", config.DefaultFormat,
		fmt.Sprintf("Output format %v", report.Formats()))
	cmd.Flags().StringP(config.FlagOutput, "o", "",
		"Write the document to this file (creates directories if needed)")
	cmd.Flags().StringP(config.FlagUserAgent, "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")
	cmd.Flags().Int64(config.FlagMaxBodySize, config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().String(config.FlagProxy, "",
		"Proxy URL, e.g. socks5://127.0.0.1:1080 or http://proxy:3128")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .crawldigest in current or home directory)")
	cmd.Flags().BoolP("archive", "a", false,
		"Save the finished run to the local archive")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the archive database")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON lines")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if !report.IsFormat(cfg.Format) {
		return fmt.Errorf("configuration error: %w: %q", report.ErrUnknownFormat, cfg.Format)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file. Flags given explicitly win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Seeds = args
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	flags := cmd.Flags()

	if cfg.PageBudget, err = flags.GetInt(config.FlagMaxPages); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration(config.FlagTimeout); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString(config.FlagFormat); err != nil {
		return nil, err
	}
	if cfg.OutputFile, err = flags.GetString(config.FlagOutput); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString(config.FlagUserAgent); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64(config.FlagMaxBodySize); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = flags.GetString(config.FlagProxy); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.Archive, err = flags.GetBool("archive"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; the default lookup is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(cf, flags.Changed)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// setupLogger creates the redacting logger selected by cfg.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return cdlog.NewJSONLogger(w, cfg.Verbose)
	}
	return cdlog.NewLogger(w, cfg.Verbose)
}

// runCrawl runs the crawl pipeline and writes the document to out or to
// cfg.OutputFile.
//
// When the crawl is interrupted, the pages collected so far are still
// rendered before the interruption is reported.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Debug("starting crawl",
		"seeds", cfg.Seeds,
		"budget", cfg.PageBudget,
		"format", cfg.Format,
		"archive", cfg.Archive,
	)

	var archive pipeline.RunArchive
	if cfg.Archive {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer db.Close()
		archive = db
		logger.Debug("archive opened", "path", db.Path())
	}

	p, err := pipeline.DefaultPipeline(cfg, logger, out, archive)
	if err != nil {
		return err
	}

	rep := model.NewCrawlReport("", cfg.Seeds, cfg.PageBudget)
	err = p.Execute(ctx, rep)
	if err == nil {
		if rep.HasFailures() {
			logger.Warn("some pages could not be crawled",
				"failures", len(rep.Failures),
				"pages", rep.PagesCrawled(),
			)
		}
		return nil
	}

	if errors.Is(err, context.Canceled) && rep.ID != "" {
		logger.Warn("crawl interrupted, writing partial results", "pages", rep.PagesCrawled())
		if renderErr := renderPartial(cfg, logger, out, rep); renderErr != nil {
			return errors.Join(err, renderErr)
		}
	}
	return err
}

// renderPartial writes the records of an interrupted run.
func renderPartial(cfg *config.Config, logger *slog.Logger, out io.Writer, rep *model.CrawlReport) error {
	renderer, err := report.New(cfg.Format)
	if err != nil {
		return err
	}

	opts := []pipeline.RenderStepOption{pipeline.WithRenderLogger(logger)}
	if cfg.OutputFile != "" {
		opts = append(opts, pipeline.WithOutputFile(cfg.OutputFile))
	}
	return pipeline.NewRenderStep(renderer, out, opts...).Do(context.Background(), rep)
}
