package ports

import (
	"context"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// EventPublisher hands lifecycle events to the async pipeline. Publishing
// must never fail the mutation that produced the event.
type EventPublisher interface {
	Publish(event domain.OrderEvent)
}

// EventRepository persists the order_events audit trail.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.OrderEvent) error
	ListByReference(ctx context.Context, orderReference string, limit int) ([]*domain.OrderEvent, error)
}

// DedupChecker remembers processed event ids for a bounded window.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}

// EventService processes order lifecycle events off the hot path.
type EventService interface {
	Process(ctx context.Context, event domain.OrderEvent) error
}
