// internal/core/domain/events.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a change that already committed.
type EventType string

const (
	EventWarehouseCreated     EventType = "warehouse.created"
	EventWarehouseUpdated     EventType = "warehouse.updated"
	EventWarehouseDeleted     EventType = "warehouse.deleted"
	EventItemCreated          EventType = "inventory.item_created"
	EventItemUpdated          EventType = "inventory.item_updated"
	EventItemDeleted          EventType = "inventory.item_deleted"
	EventInventoryTransferred EventType = "inventory.transferred"
)

// Event is published after a successful commit. AggregateID is used as the
// partition key so events for one warehouse or item stay ordered.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Type        EventType `json:"type"`
	AggregateID uuid.UUID `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, aggregateID uuid.UUID, payload any) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// IsWarehouseEvent reports whether the event belongs on the warehouse topic.
func (e Event) IsWarehouseEvent() bool {
	switch e.Type {
	case EventWarehouseCreated, EventWarehouseUpdated, EventWarehouseDeleted:
		return true
	}
	return false
}
