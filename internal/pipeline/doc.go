// Package pipeline runs a crawl and its follow-up work as a sequence of steps.
//
// The CLI assembles crawl, render and (optionally) archive steps. Each step
// receives the same report: the crawl step fills it in and the later steps
// consume it. Steps run in order and the pipeline stops at the first error
// unless configured to continue.
package pipeline
