// Package log builds the slog loggers used by crawldigest.
//
// Loggers are created once in the command layer and injected into the
// components that log; library packages never touch slog's default logger.
//
// # Redaction
//
// The RedactingHandler masks sensitive information before it reaches the
// output:
//   - attributes named like credentials (cookie, authorization, token, ...)
//   - values that look like secrets (bearer tokens, JWTs, long API keys)
//   - credential query parameters and user info inside logged URLs
//
// Crawled URLs often carry session identifiers in their query strings and
// site configuration may hold cookies, so redaction applies at every level.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Info("crawling", "url", "https://example.com/?token=abc")
//	// crawling url="https://example.com/?token=***REDACTED***"
package log
