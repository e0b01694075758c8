package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultPageBudget is the number of URLs a crawl visits, failed ones
	// included, before it stops.
	DefaultPageBudget = 10

	// DefaultTimeout bounds each HTTP request, body included.
	DefaultTimeout = 30 * time.Second

	// AppName is the application name used for XDG directory paths.
	AppName = "crawldigest"

	// DefaultUserAgent identifies crawldigest in HTTP requests.
	DefaultUserAgent = "crawldigest/1.0 (+https://github.com/nao1215/crawldigest)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultFormat is the output format used when none is given.
	DefaultFormat = "markdown"
)

// Config holds all options for one crawldigest invocation.
// It is populated from CLI flags, filled in from the configuration file
// and passed down explicitly; there is no global configuration.
type Config struct {
	// Seeds are the URLs the crawl starts from, in order.
	Seeds []string

	// PageBudget is the maximum number of URLs to visit.
	PageBudget int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	// Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// Proxy is an optional proxy URL such as socks5://127.0.0.1:1080.
	// Empty means direct connections.
	Proxy string

	// Format names the renderer used for the output document.
	Format string

	// OutputFile is where the document is written.
	// When empty, the document goes to stdout.
	OutputFile string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .crawldigest is looked up in the current directory and
	// then in the home directory.
	ConfigFilePath string

	// SiteConfigs holds the loaded configuration file, if any.
	SiteConfigs *File

	// Archive stores the finished run in the SQLite archive.
	Archive bool

	// DBDir is the directory of the archive database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		PageBudget:  DefaultPageBudget,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Format:      DefaultFormat,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for crawldigest.
// On Linux: ~/.local/share/crawldigest
// On macOS: ~/Library/Application Support/crawldigest
// On Windows: %LOCALAPPDATA%\crawldigest
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for crawldigest.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It runs once after flags and the configuration file are merged, before
// anything is fetched.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.PageBudget <= 0 {
		return ErrInvalidPageBudget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// HostHeaders returns the extra request headers configured for host,
// or nil when there is no configuration file.
func (c *Config) HostHeaders(host string) map[string]string {
	if c.SiteConfigs == nil {
		return nil
	}
	return c.SiteConfigs.HeadersFor(host)
}

// Flag names that correspond to configuration file keys.
const (
	FlagMaxPages    = "max-pages"
	FlagTimeout     = "timeout"
	FlagFormat      = "format"
	FlagOutput      = "output"
	FlagUserAgent   = "user-agent"
	FlagMaxBodySize = "max-body-size"
	FlagProxy       = "proxy"
)

// ApplyFile copies the values of cf into c for every setting that was not
// given on the command line. changed reports whether a flag was set
// explicitly. Seeds from the file are used only when no seed was given.
func (c *Config) ApplyFile(cf *File, changed func(flag string) bool) {
	if cf == nil {
		return
	}
	c.SiteConfigs = cf

	if len(c.Seeds) == 0 && len(cf.Seeds) > 0 {
		c.Seeds = append([]string(nil), cf.Seeds...)
	}
	if cf.PageBudget != 0 && !changed(FlagMaxPages) {
		c.PageBudget = cf.PageBudget
	}
	if cf.Timeout != 0 && !changed(FlagTimeout) {
		c.Timeout = cf.Timeout
	}
	if cf.Format != "" && !changed(FlagFormat) {
		c.Format = cf.Format
	}
	if cf.Output != "" && !changed(FlagOutput) {
		c.OutputFile = cf.Output
	}
	if cf.UserAgent != "" && !changed(FlagUserAgent) {
		c.UserAgent = cf.UserAgent
	}
	if cf.MaxBodySize != 0 && !changed(FlagMaxBodySize) {
		c.MaxBodySize = cf.MaxBodySize
	}
	if cf.Proxy != "" && !changed(FlagProxy) {
		c.Proxy = cf.Proxy
	}
}
