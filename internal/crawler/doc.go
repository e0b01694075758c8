// Package crawler provides the crawl loop and its collaborators.
//
// # Architecture
//
// The crawler package is designed around the Spider type, which drives a
// crawl to completion. Each step dequeues one URL from the Frontier, fetches
// it, extracts a structured page record and feeds every discovered link back
// into the Frontier.
//
// # Components
//
//   - Spider: The crawl loop that wires the other components together
//   - Frontier: Visited set plus FIFO queue; the only deduplication point
//   - Fetcher: Retrieves raw markup over HTTP (HTTPFetcher)
//   - Extract: Turns markup into a model.PageRecord (goquery based)
//   - Links: Lazily yields candidate URLs from anchor elements (x/net/html tokenizer)
//
// # Failure isolation
//
// A failure while fetching or extracting one URL never aborts the run: it
// is logged, recorded in the report, and the URL is still marked visited so
// it is not retried.
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(crawler.WithTimeout(30 * time.Second))
//	spider := crawler.NewSpider(fetcher, crawler.WithPageBudget(10))
//	report, err := spider.Crawl(ctx, []string{"https://example.com/"})
//
// The crawl is single-threaded: fetches never overlap.
package crawler
