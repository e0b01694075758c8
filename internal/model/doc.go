// Package model defines the core data structures used throughout crawldigest.
//
// This package contains the following main types:
//   - PageRecord: The structured result of extracting one fetched page
//   - ContentBlock: Headings, paragraphs, lists and tables of a page
//   - CrawlReport: The outcome of one crawl run (records, visit order, failures)
//
// Models live in their own package because the crawler, report, pipeline and
// database packages all exchange them.
//
// The models are serializable to JSON for report output and archive storage.
package model
