// Package database provides the SQLite run archive of crawldigest.
//
// When archiving is enabled every finished crawl is stored with its page
// records, failures and timing, so that past runs can be listed and
// rendered again in any output format. A crawl never reads the archive:
// each run starts from an empty frontier.
//
// The archive uses modernc.org/sqlite, a CGO-free driver, and keeps all
// runs in a single file in the XDG data directory.
package database
