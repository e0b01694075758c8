package report

import (
	"encoding/json"
	"fmt"

	"github.com/nao1215/crawldigest/internal/model"
)

// JSONRenderer renders records as a JSON array for tool integration.
type JSONRenderer struct {
	// indent is the indentation string; empty means compact output.
	indent string
}

// JSONRendererOption configures a JSONRenderer.
type JSONRendererOption func(*JSONRenderer)

// WithIndent sets the indentation string. An empty string produces
// compact output.
func WithIndent(indent string) JSONRendererOption {
	return func(r *JSONRenderer) {
		r.indent = indent
	}
}

// NewJSONRenderer creates a JSONRenderer that indents with two spaces.
func NewJSONRenderer(opts ...JSONRendererOption) *JSONRenderer {
	r := &JSONRenderer{indent: "  "}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements Renderer.
func (r *JSONRenderer) Name() string {
	return FormatJSON
}

// Render implements Renderer. A nil slice renders as an empty array.
func (r *JSONRenderer) Render(records []*model.PageRecord) (string, error) {
	if records == nil {
		records = []*model.PageRecord{}
	}

	var (
		data []byte
		err  error
	)
	if r.indent != "" {
		data, err = json.MarshalIndent(records, "", r.indent)
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	return string(data) + "\n", nil
}
