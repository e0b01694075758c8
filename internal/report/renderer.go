package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/nao1215/crawldigest/internal/model"
)

// Output format names.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatGFM      = "gfm"
	FormatJSON     = "json"

	// DefaultFormat is used when no format is configured.
	DefaultFormat = FormatMarkdown
)

// ErrUnknownFormat is returned by New for a format with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer serializes page records into one document.
// Implementations are deterministic and have no side effects.
type Renderer interface {
	// Name returns the format name the renderer is registered under.
	Name() string

	// Render returns the document for records, in the given order.
	Render(records []*model.PageRecord) (string, error)
}

// renderers maps format names to constructors.
var renderers = map[string]func() Renderer{
	FormatMarkdown: func() Renderer { return NewMarkdownRenderer() },
	FormatText:     func() Renderer { return NewTextRenderer() },
	FormatGFM:      func() Renderer { return NewGFMRenderer() },
	FormatJSON:     func() Renderer { return NewJSONRenderer() },
}

// New returns the renderer for format. An empty format selects DefaultFormat.
func New(format string) (Renderer, error) {
	if format == "" {
		format = DefaultFormat
	}
	newRenderer, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, format, Formats())
	}
	return newRenderer(), nil
}

// Formats returns the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFormat reports whether format names a supported renderer.
func IsFormat(format string) bool {
	return slices.Contains(Formats(), format)
}

// WriteFile writes a rendered document to path, creating parent
// directories as needed. The file is readable by its owner only.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
