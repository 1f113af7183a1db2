// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey represents keys for context values
type ContextKey string

const (
	ContextKeyRequestID  ContextKey = "request_id"
	ContextKeyUserID     ContextKey = "user_id"
	ContextKeyTraceID    ContextKey = "trace_id"
	ContextKeyClientIP   ContextKey = "client_ip"
	ContextKeyMethod     ContextKey = "method"
	ContextKeyPath       ContextKey = "path"
	ContextKeyTaskID     ContextKey = "task_id"
	ContextKeyTaskType   ContextKey = "task_type"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level          string
	Format         string // json, text, pretty
	Writer         io.Writer
	AddSource      bool
	Environment    string
	ServiceName    string
	ServiceVersion string
}

// SetupLogger builds the process logger and installs it as the slog default
func SetupLogger(level string, format string) *slog.Logger {
	l := NewLogger(&LogConfig{
		Level:          level,
		Format:         format,
		AddSource:      strings.EqualFold(level, "debug"),
		ServiceName:    os.Getenv("SERVICE_NAME"),
		ServiceVersion: os.Getenv("SERVICE_VERSION"),
		Environment:    os.Getenv("APP_ENV"),
	})
	slog.SetDefault(l)
	return l
}

// NewLogger creates a logger whose handler chain adds request context and
// redacts sensitive values before formatting.
func NewLogger(config *LogConfig) *slog.Logger {
	if config == nil {
		config = &LogConfig{Level: "info", Format: "json"}
	}
	w := config.Writer
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(config.Level),
		AddSource: config.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return replaceAttr(config, groups, a)
		},
	}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "pretty":
		handler = NewPrettyTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = NewSanitizationHandler(handler)
	handler = NewContextHandler(handler)

	var attrs []slog.Attr
	if config.ServiceName != "" {
		attrs = append(attrs, slog.String("app", config.ServiceName))
	}
	if config.ServiceVersion != "" {
		attrs = append(attrs, slog.String("version", config.ServiceVersion))
	}
	if config.Environment != "" {
		attrs = append(attrs, slog.String("env", config.Environment))
	}
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContextValue stores a logging value on ctx
func WithContextValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// RequestID returns the request id stored on ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// UserID returns the authenticated subject stored on ctx, if any
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

func contextKeys() []ContextKey {
	return []ContextKey{
		ContextKeyRequestID,
		ContextKeyUserID,
		ContextKeyTraceID,
		ContextKeyClientIP,
		ContextKeyMethod,
		ContextKeyPath,
		ContextKeyTaskID,
		ContextKeyTaskType,
	}
}

func extractContextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	for _, key := range contextKeys() {
		val := ctx.Value(key)
		if val == nil {
			continue
		}
		name := string(key)
		switch v := val.(type) {
		case string:
			if v != "" {
				attrs = append(attrs, slog.String(name, v))
			}
		case int:
			attrs = append(attrs, slog.Int(name, v))
		case time.Duration:
			attrs = append(attrs, slog.Duration(name, v))
		case uuid.UUID:
			attrs = append(attrs, slog.String(name, v.String()))
		default:
			attrs = append(attrs, slog.Any(name, v))
		}
	}
	return attrs
}

func replaceAttr(config *LogConfig, _ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339Nano))
		}
	}

	// Rename level key for log aggregators
	if a.Key == slog.LevelKey && config.Format == "json" {
		a.Key = "severity"
	}

	if strings.HasSuffix(a.Key, "_ms") {
		if d, ok := a.Value.Any().(time.Duration); ok {
			a.Value = slog.Float64Value(float64(d.Microseconds()) / 1000)
		}
	}

	return a
}
