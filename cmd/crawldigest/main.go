// Package main provides the entry point for the crawldigest CLI.
//
// crawldigest crawls a bounded number of web pages breadth-first from one
// or more seed URLs and writes a digest of their content.
//
// Usage:
//
//	crawldigest crawl <seed-url>...
//	crawldigest history
//
// See --help for all available options.
package main

// main is the entry point for crawldigest.
func main() {
	Execute()
}
