package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

// maxRedirects is the number of redirects followed before the last
// response is returned as is.
const maxRedirects = 10

var (
	// ErrInvalidProxyAddress is returned when the proxy URL has no valid host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected scheme://host:port")

	// ErrUnsupportedProxy is returned for proxy schemes other than
	// socks5, socks5h, http and https.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")
)

// NewHTTPClient returns the HTTP client for a crawl.
//
// proxyURL selects an optional proxy, e.g. "socks5://127.0.0.1:1080" or
// "http://proxy.internal:3128"; an empty string means direct connections.
// timeout bounds each request including its body.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("unexpected default transport type")
	}
	transport = transport.Clone()

	if proxyURL != "" {
		if err := configureProxy(transport, proxyURL); err != nil {
			return nil, err
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// configureProxy routes transport through the proxy at rawURL.
func configureProxy(transport *http.Transport, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProxyAddress, err)
	}
	if !isValidProxyAddress(u.Host) {
		return fmt.Errorf("%w: %q", ErrInvalidProxyAddress, rawURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProxy, u.Scheme)
	}
}

// dialContext adapts a proxy.Dialer to the transport's DialContext.
// The SOCKS5 dialer of x/net supports contexts; other dialers are
// abandoned when ctx ends.
func dialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := dialer.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			go func() {
				if result := <-resultCh; result.conn != nil {
					_ = result.conn.Close()
				}
			}()
			return nil, ctx.Err()
		}
	}
}

// isValidProxyAddress reports whether address is a non-empty host with a
// port between 1 and 65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
