package crawler

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/html/charset"
)

// Fetcher retrieves the raw markup of a URL.
// Implementations perform exactly one attempt; retries are not their concern.
type Fetcher interface {
	// Fetch returns the response body of url as text.
	// Every failure is reported as a *FetchError.
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Default HTTPFetcher settings.
const (
	// DefaultTimeout bounds a whole request, body included.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize is the largest body the fetcher will read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies crawldigest in HTTP requests.
	DefaultUserAgent = "crawldigest/1.0 (+https://github.com/nao1215/crawldigest)"
)

// HostHeaders returns extra request headers for a host.
// A nil result means no extra headers.
type HostHeaders func(host string) map[string]string

// HTTPFetcher fetches pages with net/http.
type HTTPFetcher struct {
	// client performs the requests.
	client *http.Client

	// timeout bounds each request when no client is supplied.
	timeout time.Duration

	// userAgent is sent with every request.
	userAgent string

	// maxBodySize limits the decoded response body.
	maxBodySize int64

	// hostHeaders supplies per-host headers such as cookies.
	hostHeaders HostHeaders
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the HTTP client. The client's own timeout applies.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// WithTimeout sets the per-request timeout of the default client.
// It has no effect when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
// Values below one are ignored.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHostHeaders sets the per-host header lookup.
func WithHostHeaders(lookup HostHeaders) FetcherOption {
	return func(f *HTTPFetcher) {
		f.hostHeaders = lookup
	}
}

// NewHTTPFetcher creates an HTTPFetcher with sensible defaults.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch downloads pageURL and returns its body decoded to UTF-8.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	if f.hostHeaders != nil {
		for k, v := range f.hostHeaders(u.Hostname()) {
			req.Header.Set(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return "", &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status),
		}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}

	return body, nil
}

// readBody decompresses, size-limits and charset-decodes a response body.
func (f *HTTPFetcher) readBody(resp *http.Response) (string, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	raw, err := io.ReadAll(io.LimitReader(reader, f.maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxBodySize {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, f.maxBodySize)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		// Unknown charsets fall back to the raw bytes.
		return string(raw), nil //nolint:nilerr // undecodable charset is not a fetch failure
	}
	text, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode charset: %w", err)
	}

	return string(text), nil
}
