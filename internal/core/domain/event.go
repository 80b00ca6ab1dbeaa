package domain

import "time"

// EventKind names a point in the order lifecycle worth auditing.
type EventKind string

const (
	EventOrderPlaced        EventKind = "order_placed"
	EventOrderStatusChanged EventKind = "order_status_changed"
	EventOrderClaimed       EventKind = "order_claimed"
	EventDeliveryUpdated    EventKind = "delivery_status_changed"
)

// OrderEvent records one lifecycle change on an order. ID doubles as the
// deduplication key; events for the same reference are processed in order.
type OrderEvent struct {
	ID             string    `json:"id"`
	Kind           EventKind `json:"kind"`
	OrderReference string    `json:"order_reference"`
	ActorID        string    `json:"actor_id"`
	Status         string    `json:"status,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
