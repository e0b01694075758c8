package config

import (
	"strings"
	"time"
)

// SiteConfig holds request settings for one host.
type SiteConfig struct {
	// Cookie is sent as the Cookie header.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to the host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .crawldigest configuration file.
type File struct {
	// Seeds are used when no seed URL is given on the command line.
	Seeds []string `yaml:"seeds,omitempty"`

	// PageBudget overrides the default page budget.
	PageBudget int `yaml:"pageBudget,omitempty"`

	// Format overrides the default output format.
	Format string `yaml:"format,omitempty"`

	// Output is the default output file path.
	Output string `yaml:"output,omitempty"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Timeout overrides the default per-request timeout, e.g. "45s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxBodySize overrides the default response body limit in bytes.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty"`

	// Proxy routes all requests through a proxy, e.g. "socks5://127.0.0.1:1080".
	Proxy string `yaml:"proxy,omitempty"`

	// Sites maps host names (without scheme or port) to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// SiteFor returns the configuration for host, merged with the defaults.
// Host names are matched case-insensitively.
func (cf *File) SiteFor(host string) SiteConfig {
	result := SiteConfig{Cookie: cf.Defaults.Cookie}
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.Sites[host]
	if !ok {
		site, ok = cf.Sites[strings.ToLower(host)]
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

// HeadersFor returns the request headers for host, with the cookie
// folded in as a Cookie header. It returns nil when nothing is configured.
func (cf *File) HeadersFor(host string) map[string]string {
	site := cf.SiteFor(host)
	if site.Cookie == "" && len(site.Headers) == 0 {
		return nil
	}

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}
	return headers
}
