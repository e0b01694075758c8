package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPageBudget is returned when a crawl is started with a page
	// budget that is not positive.
	ErrInvalidPageBudget = errors.New("invalid page budget: must be positive")

	// ErrNoSeeds is returned when a crawl is started without seed URLs.
	ErrNoSeeds = errors.New("no seed URLs provided")

	// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrBodyTooLarge is wrapped by FetchError when a response body exceeds
	// the configured limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractionPanic wraps a panic recovered while processing a page.
	ErrExtractionPanic = errors.New("page processing panicked")
)

// FetchError describes a failed fetch. The crawl loop treats every
// FetchError the same way regardless of its cause.
type FetchError struct {
	// URL is the URL that could not be fetched.
	URL string

	// StatusCode is the HTTP status of the response, or 0 when no response
	// was received.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
