// internal/core/ports/events.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// EventPublisher delivers committed domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
	Close() error
}
