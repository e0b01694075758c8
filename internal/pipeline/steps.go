package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/crawldigest/internal/config"
	"github.com/nao1215/crawldigest/internal/crawler"
	"github.com/nao1215/crawldigest/internal/model"
	"github.com/nao1215/crawldigest/internal/report"
	"github.com/nao1215/crawldigest/internal/transport"
)

// Crawler runs a crawl from a set of seeds. *crawler.Spider implements it.
type Crawler interface {
	Crawl(ctx context.Context, seeds []string) (*model.CrawlReport, error)
}

// RunArchive stores finished runs. *database.CrawlDB implements it.
type RunArchive interface {
	SaveRun(ctx context.Context, report *model.CrawlReport) error
}

// CrawlStep runs the crawl for the seeds of the report and replaces the
// report with the crawl's result.
type CrawlStep struct {
	crawler Crawler
	logger  *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step backed by c.
func NewCrawlStep(c Crawler, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
//
// When the crawl is interrupted the partial result is still stored in
// report before the interruption is returned, so that callers may render
// what was collected.
func (s *CrawlStep) Do(ctx context.Context, rep *model.CrawlReport) error {
	result, err := s.crawler.Crawl(ctx, rep.Seeds)
	if result != nil {
		*rep = *result
	}
	if err != nil {
		if result != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			s.logger.Warn("crawl interrupted",
				"pages", rep.PagesCrawled(),
				"pending", len(rep.Pending),
			)
		}
		return fmt.Errorf("crawl: %w", err)
	}

	s.logger.Info("crawl completed",
		"run", rep.ID,
		"pages", rep.PagesCrawled(),
		"failures", len(rep.Failures),
		"duration", rep.Duration(),
	)

	return nil
}

// RenderStep renders the records of the report and writes the result to a
// file or, when no path is set, to a writer.
type RenderStep struct {
	renderer report.Renderer
	path     string
	out      io.Writer
	logger   *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithOutputFile writes the rendered document to path instead of the writer.
func WithOutputFile(path string) RenderStepOption {
	return func(s *RenderStep) {
		s.path = path
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a render step that writes to out unless
// WithOutputFile is given.
func NewRenderStep(renderer report.Renderer, out io.Writer, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		renderer: renderer,
		out:      out,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, rep *model.CrawlReport) error {
	content, err := s.renderer.Render(rep.Records)
	if err != nil {
		return fmt.Errorf("render %s: %w", s.renderer.Name(), err)
	}

	if s.path != "" {
		if err := report.WriteFile(s.path, content); err != nil {
			return err
		}
		s.logger.Info("report written",
			"path", s.path,
			"format", s.renderer.Name(),
			"pages", len(rep.Records),
		)
		return nil
	}

	if s.out == nil {
		return errors.New("render: no output destination")
	}
	if _, err := io.WriteString(s.out, content); err != nil {
		return fmt.Errorf("render: write output: %w", err)
	}
	return nil
}

// ArchiveStep saves the finished run to the archive.
type ArchiveStep struct {
	archive RunArchive
	logger  *slog.Logger
}

// NewArchiveStep creates an archive step.
func NewArchiveStep(archive RunArchive, logger *slog.Logger) *ArchiveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveStep{
		archive: archive,
		logger:  logger,
	}
}

// Name returns the step name.
func (s *ArchiveStep) Name() string {
	return "archive"
}

// Do executes the archive step.
func (s *ArchiveStep) Do(ctx context.Context, rep *model.CrawlReport) error {
	if err := s.archive.SaveRun(ctx, rep); err != nil {
		return fmt.Errorf("archive run %s: %w", rep.ID, err)
	}
	s.logger.Info("run archived", "run", rep.ID)
	return nil
}

// DefaultPipeline builds the crawl pipeline described by cfg.
//
// The crawl uses an HTTP fetcher configured from cfg (proxy included), the records are
// rendered in cfg.Format to cfg.OutputFile (or out when unset), and the run
// is archived when archive is non-nil.
func DefaultPipeline(cfg *config.Config, logger *slog.Logger, out io.Writer, archive RunArchive) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := report.New(cfg.Format)
	if err != nil {
		return nil, err
	}

	client, err := transport.NewHTTPClient(cfg.Proxy, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	fetcher := crawler.NewHTTPFetcher(
		crawler.WithHTTPClient(client),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithHostHeaders(cfg.HostHeaders),
	)
	spider := crawler.NewSpider(fetcher,
		crawler.WithPageBudget(cfg.PageBudget),
		crawler.WithLogger(logger),
	)

	renderOpts := []RenderStepOption{WithRenderLogger(logger)}
	if cfg.OutputFile != "" {
		renderOpts = append(renderOpts, WithOutputFile(cfg.OutputFile))
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewCrawlStep(spider, WithCrawlLogger(logger)),
		NewRenderStep(renderer, out, renderOpts...),
	)
	if archive != nil {
		p.AddStep(NewArchiveStep(archive, logger))
	}

	return p, nil
}
