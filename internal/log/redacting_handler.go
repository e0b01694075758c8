package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"access_token":  true,
	"refresh_token": true,
	"private_key":   true,
	"secret_key":    true,

	// Session
	"session":    true,
	"session_id": true,
	"sessionid":  true,
	"sid":        true,
	"jsessionid": true,

	// Credentials
	"credential":  true,
	"credentials": true,
	"auth":        true,
}

// sensitiveKeywords mark a key as sensitive when they appear anywhere in it.
// The bare word "key" is left out because of false positives such as "monkey".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private", "cookie",
}

// sensitivePatterns match values that are masked regardless of their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// Long alphanumeric strings such as API keys
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// AWS access keys
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),

	// Private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// urlPattern finds absolute http(s) URLs inside free text such as error messages.
var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// RedactingHandler wraps an slog.Handler and masks sensitive attribute
// values before passing records on.
type RedactingHandler struct {
	// handler receives the redacted records.
	handler slog.Handler
}

// NewRedactingHandler creates a RedactingHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a handler whose preset attributes are redacted.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a handler for the named group.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr redacts a single attribute, descending into groups.
func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		value := a.Value.String()
		if isSensitiveValue(value) {
			return slog.String(a.Key, MaskValue)
		}
		if redacted := redactURLs(value); redacted != value {
			return slog.String(a.Key, redacted)
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			msg := err.Error()
			if redacted := redactURLs(msg); redacted != msg {
				return slog.String(a.Key, redacted)
			}
		}
	}

	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// redactURLs masks the password and credential-like query parameters of
// every URL in text. Text without URLs is returned unchanged.
func redactURLs(text string) string {
	if !strings.Contains(text, "://") {
		return text
	}
	return urlPattern.ReplaceAllStringFunc(text, redactURL)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	changed := false
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), MaskValue)
			changed = true
		}
	}

	if u.RawQuery != "" {
		query := u.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, MaskValue)
				changed = true
			}
		}
		if changed {
			u.RawQuery = encodeQuery(query)
		}
	}

	if !changed {
		return raw
	}
	return u.String()
}

// encodeQuery encodes query like url.Values.Encode but leaves the mask
// readable.
func encodeQuery(query url.Values) string {
	return strings.ReplaceAll(query.Encode(), url.QueryEscape(MaskValue), MaskValue)
}

// NewLogger creates a text logger that redacts sensitive values.
// The level is Info, or Debug when verbose is set.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a JSON logger that redacts sensitive values.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
