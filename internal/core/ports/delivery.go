package ports

import (
	"context"
	"time"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// AssignmentRepository defines persistence for delivery assignments.
type AssignmentRepository interface {
	// Claim atomically inserts the assignment and moves the order's
	// delivery status from pending to assigned. A unique index on the
	// order reference turns a losing race into
	// domain.ErrOrderAlreadyAssigned; an order that is not paid-and-
	// pending yields domain.ErrOrderNotAvailable. Both leave no partial
	// writes behind.
	Claim(ctx context.Context, a *domain.DeliveryAssignment) error
	FindByID(ctx context.Context, id string) (*domain.DeliveryAssignment, error)
	FindByOrderReference(ctx context.Context, reference string) (*domain.DeliveryAssignment, error)
	ListByCourier(ctx context.Context, courierID string) ([]*domain.DeliveryAssignment, error)
	// UpdateStatus persists a status change. When the new status is
	// delivered, the order's delivery_status is propagated in the same
	// transaction so the pair never splits.
	UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus, notes string, deliveredAt *time.Time) error
	// CountByStatus aggregates assignment counts, scoped to one courier
	// when courierID is non-empty.
	CountByStatus(ctx context.Context, courierID string) (map[domain.AssignmentStatus]int64, error)
	RecentDelivered(ctx context.Context, courierID string, limit int) ([]*domain.DeliveryAssignment, error)
	// ListWithPendingOrders returns assignments whose order still shows
	// delivery_status=pending, the drift repaired by the reconciler.
	ListWithPendingOrders(ctx context.Context) ([]*domain.DeliveryAssignment, error)
}

// AvailableOrder is the claimable-order view shown to couriers.
type AvailableOrder struct {
	Reference string
	ItemCount int
	Total     float64
	City      string
	Address   string
	CreatedAt time.Time
}

// UpdateAssignmentInput carries a courier's status change on an assignment.
type UpdateAssignmentInput struct {
	CourierID    string
	AssignmentID string
	Status       string
	Notes        string
}

// DeliveryStats summarizes one courier's workload.
type DeliveryStats struct {
	Counts          map[domain.AssignmentStatus]int64
	RecentDelivered []*domain.DeliveryAssignment
}

// DeliveryService defines the courier-facing use cases.
type DeliveryService interface {
	AvailableOrders(ctx context.Context) ([]AvailableOrder, error)
	// Claim assigns the order to the courier. AssignedBy differs from the
	// courier when an admin dispatches the order on their behalf.
	Claim(ctx context.Context, courierID, assignedBy, orderReference string) (*domain.DeliveryAssignment, error)
	Assignments(ctx context.Context, courierID string) ([]*domain.DeliveryAssignment, error)
	UpdateStatus(ctx context.Context, input UpdateAssignmentInput) (*domain.DeliveryAssignment, error)
	Stats(ctx context.Context, courierID string) (*DeliveryStats, error)
	OnlineStatus(ctx context.Context, courierID string) (bool, error)
	SetOnlineStatus(ctx context.Context, courierID string, online bool) error
}
