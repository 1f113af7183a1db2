// internal/pkg/logger/handlers.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

// ContextHandler adds request and task values found on the context to every record
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a handler that enriches logs with context values
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := extractContextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// SanitizationHandler masks secrets in attribute values and messages
type SanitizationHandler struct {
	handler    slog.Handler
	redactions []redaction
	blacklist  []string
}

const redacted = "***REDACTED***"

// NewSanitizationHandler creates a handler that sanitizes sensitive data
func NewSanitizationHandler(handler slog.Handler) *SanitizationHandler {
	return &SanitizationHandler{
		handler: handler,
		redactions: []redaction{
			{
				pattern:     regexp.MustCompile(`(?i)(password|pwd|secret|token|jwt|api[-_]?key)\s*[:=]\s*["']?([^"'\s]+)`),
				replacement: "$1=" + redacted,
			},
			{
				pattern:     regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.=]+`),
				replacement: "Bearer " + redacted,
			},
			{
				pattern:     regexp.MustCompile(`(postgres(?:ql)?://[^:/\s]+:)[^@\s]+@`),
				replacement: "${1}" + redacted + "@",
			},
		},
		blacklist: []string{
			"password", "pwd", "secret", "token", "authorization", "jwt", "api_key",
		},
	}
}

func (h *SanitizationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SanitizationHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.sanitizeString(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

func (h *SanitizationHandler) sanitizeAttr(attr slog.Attr) slog.Attr {
	lowerKey := strings.ToLower(attr.Key)
	for _, blacklisted := range h.blacklist {
		if strings.Contains(lowerKey, blacklisted) {
			return slog.String(attr.Key, redacted)
		}
	}

	switch attr.Value.Kind() {
	case slog.KindString:
		attr.Value = slog.StringValue(h.sanitizeString(attr.Value.String()))
	case slog.KindGroup:
		group := attr.Value.Group()
		cleaned := make([]any, 0, len(group))
		for _, a := range group {
			cleaned = append(cleaned, h.sanitizeAttr(a))
		}
		attr = slog.Group(attr.Key, cleaned...)
	}
	return attr
}

func (h *SanitizationHandler) sanitizeString(s string) string {
	for _, r := range h.redactions {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

func (h *SanitizationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.sanitizeAttr(a)
	}
	return &SanitizationHandler{
		handler:    h.handler.WithAttrs(cleaned),
		redactions: h.redactions,
		blacklist:  h.blacklist,
	}
}

func (h *SanitizationHandler) WithGroup(name string) slog.Handler {
	return &SanitizationHandler{
		handler:    h.handler.WithGroup(name),
		redactions: h.redactions,
		blacklist:  h.blacklist,
	}
}

// PrettyTextHandler provides human-readable colored output for development
type PrettyTextHandler struct {
	*slog.TextHandler
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

// NewPrettyTextHandler creates a pretty text handler
func NewPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyTextHandler {
	return &PrettyTextHandler{
		TextHandler: slog.NewTextHandler(w, opts),
		mu:          &sync.Mutex{},
		w:           w,
	}
}

func (h *PrettyTextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	level := r.Level.String()
	reset := "\033[0m"

	fmt.Fprintf(h.w, "%s%s %-5s%s %s",
		levelColor(r.Level),
		r.Time.Format("2006-01-02 15:04:05.000"),
		strings.ToUpper(level),
		reset,
		r.Message,
	)

	write := func(a slog.Attr) bool {
		fmt.Fprintf(h.w, " \033[36m%s\033[0m=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	_, err := fmt.Fprintln(h.w)
	return err
}

func (h *PrettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyTextHandler{
		TextHandler: h.TextHandler,
		mu:          h.mu,
		w:           h.w,
		attrs:       append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func levelColor(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "\033[37m" // White
	case slog.LevelInfo:
		return "\033[34m" // Blue
	case slog.LevelWarn:
		return "\033[33m" // Yellow
	case slog.LevelError:
		return "\033[31m" // Red
	default:
		return "\033[0m"
	}
}
