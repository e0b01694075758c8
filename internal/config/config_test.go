package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default PageBudget is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.PageBudget != 10 {
			t.Errorf("expected PageBudget to be 10, got %d", cfg.PageBudget)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default Format is markdown", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != "markdown" {
			t.Errorf("expected Format to be 'markdown', got %q", cfg.Format)
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default UserAgent names crawldigest", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("unexpected UserAgent %q", cfg.UserAgent)
		}
	})

	t.Run("archive is off and lives in the data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.Archive {
			t.Error("expected Archive to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Seeds = []string{"https://example.com/"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{
			name:   "multiple seeds is valid",
			modify: func(c *Config) { c.Seeds = []string{"https://a.example", "https://b.example"} },
		},
		{
			name:    "nil seeds returns ErrNoSeeds",
			modify:  func(c *Config) { c.Seeds = nil },
			wantErr: ErrNoSeeds,
		},
		{
			name:    "zero page budget returns ErrInvalidPageBudget",
			modify:  func(c *Config) { c.PageBudget = 0 },
			wantErr: ErrInvalidPageBudget,
		},
		{
			name:    "negative page budget returns ErrInvalidPageBudget",
			modify:  func(c *Config) { c.PageBudget = -3 },
			wantErr: ErrInvalidPageBudget,
		},
		{
			name:    "zero timeout returns ErrInvalidTimeout",
			modify:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative max body size returns ErrInvalidMaxBodySize",
			modify:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name:   "zero max body size is valid",
			modify: func(c *Config) { c.MaxBodySize = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestApplyFile tests merging the configuration file into flag values.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	file := &File{
		Seeds:       []string{"https://file.example/"},
		PageBudget:  25,
		Format:      "text",
		Output:      "out.txt",
		UserAgent:   "file-agent",
		Timeout:     45 * time.Second,
		MaxBodySize: 1024,
		Proxy:       "socks5://127.0.0.1:1080",
	}

	t.Run("file values fill unset flags", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(file, func(string) bool { return false })

		if !reflect.DeepEqual(cfg.Seeds, []string{"https://file.example/"}) {
			t.Errorf("unexpected seeds %v", cfg.Seeds)
		}
		if cfg.PageBudget != 25 || cfg.Format != "text" || cfg.OutputFile != "out.txt" {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.UserAgent != "file-agent" || cfg.Timeout != 45*time.Second || cfg.MaxBodySize != 1024 {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.Proxy != "socks5://127.0.0.1:1080" {
			t.Errorf("unexpected proxy %q", cfg.Proxy)
		}
		if cfg.SiteConfigs != file {
			t.Error("expected the file to be kept for host headers")
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Seeds = []string{"https://cli.example/"}
		cfg.PageBudget = 3
		cfg.Format = "json"
		cfg.ApplyFile(file, func(flag string) bool {
			return flag == FlagMaxPages || flag == FlagFormat
		})

		if !reflect.DeepEqual(cfg.Seeds, []string{"https://cli.example/"}) {
			t.Errorf("command line seeds should win, got %v", cfg.Seeds)
		}
		if cfg.PageBudget != 3 {
			t.Errorf("expected page budget 3, got %d", cfg.PageBudget)
		}
		if cfg.Format != "json" {
			t.Errorf("expected format json, got %q", cfg.Format)
		}
		if cfg.Timeout != 45*time.Second {
			t.Errorf("unset timeout should come from the file, got %v", cfg.Timeout)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{}, func(string) bool { return false })

		if cfg.PageBudget != DefaultPageBudget || cfg.Format != DefaultFormat || cfg.Timeout != DefaultTimeout {
			t.Errorf("defaults were overwritten: %+v", cfg)
		}
	})

	t.Run("nil file is ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil, func(string) bool { return false })
		if cfg.SiteConfigs != nil {
			t.Error("expected no site configs")
		}
		if cfg.HostHeaders("example.com") != nil {
			t.Error("expected no host headers")
		}
	})
}

// TestFileSiteFor tests the SiteFor method.
func TestFileSiteFor(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteConfig{Cookie: "default_cookie=abc"},
			Sites:    map[string]SiteConfig{},
		}

		cfg := file.SiteFor("unknown.example")
		if cfg.Cookie != "default_cookie=abc" {
			t.Errorf("expected default cookie, got %q", cfg.Cookie)
		}
	})

	t.Run("returns site-specific config", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteConfig{Cookie: "default_cookie=abc"},
			Sites: map[string]SiteConfig{
				"example.com": {Cookie: "session=xyz"},
			},
		}

		if cfg := file.SiteFor("example.com"); cfg.Cookie != "session=xyz" {
			t.Errorf("expected site cookie, got %q", cfg.Cookie)
		}
		if cfg := file.SiteFor("EXAMPLE.com"); cfg.Cookie != "session=xyz" {
			t.Errorf("expected case-insensitive match, got %q", cfg.Cookie)
		}
	})

	t.Run("merges headers from defaults and site", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteConfig{
				Headers: map[string]string{"X-Default": "value1", "Authorization": "default-token"},
			},
			Sites: map[string]SiteConfig{
				"example.com": {
					Headers: map[string]string{"X-Custom": "value2", "Authorization": "site-token"},
				},
			},
		}

		cfg := file.SiteFor("example.com")
		want := map[string]string{
			"X-Default":     "value1",
			"X-Custom":      "value2",
			"Authorization": "site-token",
		}
		if !reflect.DeepEqual(cfg.Headers, want) {
			t.Errorf("unexpected headers %v", cfg.Headers)
		}
		if file.Defaults.Headers["Authorization"] != "default-token" {
			t.Error("merging must not modify the defaults")
		}
	})

	t.Run("empty cookie uses default", func(t *testing.T) {
		t.Parallel()

		file := &File{
			Defaults: SiteConfig{Cookie: "default=abc"},
			Sites: map[string]SiteConfig{
				"example.com": {Headers: map[string]string{"X-A": "1"}},
			},
		}

		if cfg := file.SiteFor("example.com"); cfg.Cookie != "default=abc" {
			t.Errorf("expected default cookie, got %q", cfg.Cookie)
		}
	})

	t.Run("nil sites map", func(t *testing.T) {
		t.Parallel()

		file := &File{Defaults: SiteConfig{Cookie: "c=1"}}
		if cfg := file.SiteFor("any.example"); cfg.Cookie != "c=1" {
			t.Errorf("expected default cookie, got %q", cfg.Cookie)
		}
	})
}

// TestFileHeadersFor tests the request headers derived from site settings.
func TestFileHeadersFor(t *testing.T) {
	t.Parallel()

	file := &File{
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:  "session=xyz",
				Headers: map[string]string{"Authorization": "Bearer token"},
			},
		},
	}

	want := map[string]string{"Cookie": "session=xyz", "Authorization": "Bearer token"}
	if got := file.HeadersFor("example.com"); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected headers %v", got)
	}
	if got := file.HeadersFor("other.example"); got != nil {
		t.Errorf("expected nil headers, got %v", got)
	}

	cfg := NewConfig()
	cfg.SiteConfigs = file
	if got := cfg.HostHeaders("example.com"); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected headers via Config %v", got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.crawldigest")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".crawldigest")
		content := `seeds:
  - https://example.com/
  - https://example.org/docs/
pageBudget: 20
format: gfm
output: digest.md
userAgent: "my-agent/2.0"
timeout: 45s
maxBodySize: 2048
defaults:
  cookie: "default=abc"
sites:
  example.com:
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Seeds) != 2 || cfg.Seeds[1] != "https://example.org/docs/" {
			t.Errorf("unexpected seeds %v", cfg.Seeds)
		}
		if cfg.PageBudget != 20 || cfg.Format != "gfm" || cfg.Output != "digest.md" {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.UserAgent != "my-agent/2.0" || cfg.MaxBodySize != 2048 {
			t.Errorf("unexpected values: %+v", cfg)
		}
		if cfg.Timeout != 45*time.Second {
			t.Errorf("expected timeout 45s, got %v", cfg.Timeout)
		}
		if cfg.Defaults.Cookie != "default=abc" {
			t.Errorf("expected default cookie, got %q", cfg.Defaults.Cookie)
		}
		site, ok := cfg.Sites["example.com"]
		if !ok {
			t.Fatal("expected example.com in sites")
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected Authorization header")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".crawldigest")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid duration", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".crawldigest")
		if err := os.WriteFile(configPath, []byte("timeout: soon\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid timeout")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".crawldigest")
		if err := os.WriteFile(configPath, []byte("pageBudget: 5\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds the file in the current directory", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte("pageBudget: 1\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(dir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if dir == "" {
			t.Errorf("expected non-empty XDG %s dir", name)
		}
		if filepath.Base(dir) != AppName {
			t.Errorf("expected XDG %s dir to end with %s, got %q", name, AppName, dir)
		}
	}
}
