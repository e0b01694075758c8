package model

import "time"

// CrawlReport is the outcome of one crawl run.
// The Spider fills it in while the run progresses; once the run ends it is
// handed to renderers and, optionally, the archive.
type CrawlReport struct {
	// ID uniquely identifies the run (a UUID string).
	ID string `json:"id"`

	// Seeds are the URLs the crawl started from.
	Seeds []string `json:"seeds"`

	// PageBudget is the maximum number of URLs the run may visit.
	PageBudget int `json:"page_budget"`

	// StartedAt is when the crawl loop began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl loop ended.
	FinishedAt time.Time `json:"finished_at"`

	// Records are the extracted pages in crawl (FIFO) order.
	Records []*PageRecord `json:"records"`

	// Visited lists every dequeued URL in visit order, failed ones included.
	Visited []string `json:"visited"`

	// Failures lists the URLs that contributed no record and why.
	Failures []Failure `json:"failures,omitempty"`

	// Pending lists URLs still queued when the run stopped.
	Pending []string `json:"pending,omitempty"`
}

// Failure records a URL whose fetch or extraction failed.
type Failure struct {
	// URL is the URL that failed.
	URL string `json:"url"`

	// Error is the failure detail.
	Error string `json:"error"`
}

// NewCrawlReport creates an empty report for the given run.
// The seed slice is copied so that the report never aliases caller state.
func NewCrawlReport(id string, seeds []string, pageBudget int) *CrawlReport {
	return &CrawlReport{
		ID:         id,
		Seeds:      append([]string(nil), seeds...),
		PageBudget: pageBudget,
		Records:    make([]*PageRecord, 0),
		Visited:    make([]string, 0),
	}
}

// AddRecord appends an extracted page.
func (r *CrawlReport) AddRecord(record *PageRecord) {
	r.Records = append(r.Records, record)
}

// AddFailure records a failed URL.
func (r *CrawlReport) AddFailure(url string, err error) {
	r.Failures = append(r.Failures, Failure{URL: url, Error: err.Error()})
}

// PagesCrawled returns the number of pages that produced a record.
func (r *CrawlReport) PagesCrawled() int {
	return len(r.Records)
}

// HasFailures reports whether any URL failed during the run.
func (r *CrawlReport) HasFailures() bool {
	return len(r.Failures) > 0
}

// Duration returns how long the crawl loop ran.
// It is zero until the run has finished.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
