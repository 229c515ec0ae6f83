package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated    EventType = "created"
	EventTypeUpdated    EventType = "updated"
	EventTypeDeleted    EventType = "deleted"
	EventTypeRecorded   EventType = "recorded"
	EventTypeRecomputed EventType = "recomputed"
	EventTypeFixed      EventType = "fixed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeVendor         EntityType = "vendor"
	EntityTypeVendorPayment  EntityType = "vendor_payment"
	EntityTypeBudgetLineItem EntityType = "budget_line_item"
	EntityTypeBudgetSummary  EntityType = "budget_summary"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "budget_summary.recomputed"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "budget_summary"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// VendorCreated creates a vendor.created event
func VendorCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeVendor, payload)
}

// VendorUpdated creates a vendor.updated event
func VendorUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeVendor, payload)
}

// VendorDeleted creates a vendor.deleted event
func VendorDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeVendor, payload)
}

// VendorBalanceFixed creates a vendor.fixed event after a balance repair
func VendorBalanceFixed(payload interface{}) Event {
	return NewEvent(EventTypeFixed, EntityTypeVendor, payload)
}

// PaymentRecorded creates a vendor_payment.recorded event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeRecorded, EntityTypeVendorPayment, payload)
}

// LineItemCreated creates a budget_line_item.created event
func LineItemCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeBudgetLineItem, payload)
}

// LineItemUpdated creates a budget_line_item.updated event
func LineItemUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeBudgetLineItem, payload)
}

// LineItemDeleted creates a budget_line_item.deleted event
func LineItemDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeBudgetLineItem, payload)
}

// SummaryRecomputed creates a budget_summary.recomputed event
func SummaryRecomputed(payload interface{}) Event {
	return NewEvent(EventTypeRecomputed, EntityTypeBudgetSummary, payload)
}
