// Package transport builds the HTTP client used by the crawl.
//
// Requests go out directly unless a proxy URL is configured. Supported
// proxies are SOCKS5 (socks5:// and socks5h://, dialed with
// golang.org/x/net/proxy) and HTTP CONNECT proxies (http:// and https://).
// The client keeps cookies across requests of one run and follows at most
// ten redirects.
package transport
