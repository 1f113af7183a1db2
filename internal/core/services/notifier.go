// internal/core/services/notifier.go
package services

import (
	"context"
	"log/slog"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// Notifier runs the side effects that follow a committed change: publishing
// domain events and dropping cached views. Failures are logged and never
// reported to the caller, because the change itself already committed.
// A nil *Notifier does nothing.
type Notifier struct {
	events ports.EventPublisher
	cache  ports.CacheInvalidator
	logger *slog.Logger
}

// NewNotifier creates a notifier. Either dependency may be nil.
func NewNotifier(events ports.EventPublisher, cache ports.CacheInvalidator, logger *slog.Logger) *Notifier {
	return &Notifier{
		events: events,
		cache:  cache,
		logger: logger.With(slog.String("component", "notifier")),
	}
}

// Committed publishes events and invalidates cached views.
func (n *Notifier) Committed(ctx context.Context, events ...domain.Event) {
	if n == nil {
		return
	}

	if n.cache != nil {
		if err := n.cache.InvalidateInventoryViews(ctx); err != nil {
			n.logger.WarnContext(ctx, "failed to invalidate cached views",
				slog.String("error", err.Error()))
		}
	}

	if n.events != nil && len(events) > 0 {
		if err := n.events.Publish(ctx, events...); err != nil {
			n.logger.ErrorContext(ctx, "failed to publish events",
				slog.Int("count", len(events)),
				slog.String("type", string(events[0].Type)),
				slog.String("error", err.Error()))
		}
	}
}
