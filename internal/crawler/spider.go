package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/crawldigest/internal/model"
)

// DefaultPageBudget is the number of URLs a crawl visits when no budget is given.
const DefaultPageBudget = 10

// Spider drives a crawl from its seed URLs to completion.
//
// Every step dequeues one URL, fetches it, extracts a record and admits the
// discovered links. A failing URL contributes no record but never stops the
// run. The run ends when the frontier is empty or the page budget of
// visited URLs is reached, whichever comes first.
type Spider struct {
	// fetcher retrieves page markup.
	fetcher Fetcher

	// extract turns markup into a record.
	extract ExtractFunc

	// links yields the candidate URLs of a page.
	links LinkFunc

	// pageBudget is the maximum number of URLs to mark visited.
	pageBudget int

	// logger receives one info event per dequeued URL and one error event
	// per failed URL.
	logger *slog.Logger

	// now is the clock used for report timestamps.
	now func() time.Time

	// newID generates report identifiers.
	newID func() string
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithPageBudget sets the maximum number of URLs to visit.
// The budget is validated when Crawl starts.
func WithPageBudget(budget int) SpiderOption {
	return func(s *Spider) {
		s.pageBudget = budget
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithExtractFunc replaces the content extractor.
func WithExtractFunc(fn ExtractFunc) SpiderOption {
	return func(s *Spider) {
		s.extract = fn
	}
}

// WithLinkFunc replaces the link extractor.
func WithLinkFunc(fn LinkFunc) SpiderOption {
	return func(s *Spider) {
		s.links = fn
	}
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) SpiderOption {
	return func(s *Spider) {
		s.now = now
	}
}

// WithIDGenerator sets the function that names crawl reports.
func WithIDGenerator(newID func() string) SpiderOption {
	return func(s *Spider) {
		s.newID = newID
	}
}

// NewSpider creates a Spider that fetches pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:    fetcher,
		extract:    Extract,
		links:      Links,
		pageBudget: DefaultPageBudget,
		now:        time.Now,
		newID:      uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// PageBudget returns the configured page budget.
func (s *Spider) PageBudget() int {
	return s.pageBudget
}

// Crawl runs a crawl from seeds and returns its report.
//
// An invalid budget or an empty seed list is rejected before anything is
// fetched. Per-URL failures are recorded in the report and never returned.
// If ctx is cancelled the partial report is returned together with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, seeds []string) (*model.CrawlReport, error) {
	if s.pageBudget <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageBudget, s.pageBudget)
	}
	if len(seeds) == 0 {
		return nil, ErrNoSeeds
	}

	report := model.NewCrawlReport(s.newID(), seeds, s.pageBudget)
	frontier := NewFrontier(seeds...)

	report.StartedAt = s.now()
	s.logger.Debug("crawl started",
		"run", report.ID,
		"seeds", len(seeds),
		"budget", s.pageBudget,
	)

	var err error
	for frontier.VisitedCount() < s.pageBudget {
		if err = ctx.Err(); err != nil {
			break
		}

		pageURL, ok := frontier.Next()
		if !ok {
			break
		}

		s.step(ctx, frontier, report, pageURL)
	}

	report.FinishedAt = s.now()
	report.Visited = frontier.Visited()
	report.Pending = frontier.Pending()

	s.logger.Debug("crawl finished",
		"run", report.ID,
		"pages", report.PagesCrawled(),
		"failures", len(report.Failures),
		"pending", len(report.Pending),
	)

	return report, err
}

// step processes one dequeued URL. The URL is marked visited exactly once,
// whether or not processing succeeds.
func (s *Spider) step(ctx context.Context, frontier *Frontier, report *model.CrawlReport, pageURL string) {
	defer frontier.MarkVisited(pageURL)

	s.logger.Info("crawling", "url", pageURL)

	record, links, err := s.visit(ctx, pageURL)
	if err != nil {
		s.logger.Error("failed to crawl", "url", pageURL, "error", err)
		report.AddFailure(pageURL, err)
		return
	}

	report.AddRecord(record)
	for _, link := range links {
		frontier.Admit(link)
	}
}

// visit fetches and processes pageURL. A panic in a collaborator is
// converted into an error so that it stays local to this URL.
func (s *Spider) visit(ctx context.Context, pageURL string) (record *model.PageRecord, links []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			record, links = nil, nil
			err = fmt.Errorf("%w: %v", ErrExtractionPanic, r)
		}
	}()

	markup, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, nil, err
	}

	record = s.extract(pageURL, markup)
	if record == nil {
		record = &model.PageRecord{
			URL:         pageURL,
			Title:       model.NoTitle,
			Description: model.NoDescription,
		}
	}

	for link := range s.links(pageURL, markup) {
		links = append(links, link)
	}

	return record, links, nil
}
