package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// personalKeys contains attribute keys that are always masked.
var personalKeys = map[string]bool{
	"respondent":   true,
	"organization": true,
	"organisation": true,
	"school":       true,
	"institution":  true,
	"author":       true,
	"name":         true,
	"full_name":    true,
	"fullname":     true,
	"email":        true,
	"e-mail":       true,
	"mail":         true,
	"phone":        true,
}

// personalKeywords are masked when they appear anywhere in a key, e.g.
// "respondent_name" or "contact_email".
var personalKeywords = []string{
	"respondent", "organization", "organisation", "email", "phone",
}

// personalPatterns match values that are masked regardless of key name.
var personalPatterns = []*regexp.Regexp{
	// Email addresses
	regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`),
}

// MaskValue is the string used to replace personal values.
const MaskValue = "***REDACTED***"

// PrivacyHandler wraps an slog.Handler and masks personal information.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Loggers passed to other packages stay plain *slog.Logger values
type PrivacyHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
}

// NewPrivacyHandler creates a PrivacyHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewPrivacyHandler(handler slog.Handler) *PrivacyHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PrivacyHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *PrivacyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *PrivacyHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the masked attributes added.
func (h *PrivacyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.maskAttr(a)
	}
	return &PrivacyHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a new handler with the given group name.
func (h *PrivacyHandler) WithGroup(name string) slog.Handler {
	return &PrivacyHandler{handler: h.handler.WithGroup(name)}
}

// maskAttr masks a single attribute, recursing into groups.
func (h *PrivacyHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			masked[i] = h.maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if isPersonalKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isPersonalValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

func isPersonalKey(key string) bool {
	k := strings.ToLower(key)
	if personalKeys[k] {
		return true
	}
	for _, kw := range personalKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

func isPersonalValue(value string) bool {
	v := strings.TrimSpace(value)
	for _, p := range personalPatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

// level maps verbose to Debug, otherwise Warn.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text logger that masks personal information.
// verbose selects the Debug level; otherwise only warnings and errors are
// written.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewPrivacyHandler(h))
}

// NewJSONLogger is NewLogger with JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewPrivacyHandler(h))
}
