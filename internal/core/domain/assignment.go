package domain

import (
	"errors"
	"time"
)

// AssignmentStatus represents the courier-side lifecycle of a claimed order.
type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentInTransit AssignmentStatus = "in_transit"
	AssignmentDelivered AssignmentStatus = "delivered"
	AssignmentFailed    AssignmentStatus = "failed"
)

// assignmentTransitions is forward-only. Failed is reachable from any
// non-terminal state; delivered and failed are terminal.
var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentAssigned:  {AssignmentInTransit, AssignmentFailed},
	AssignmentInTransit: {AssignmentDelivered, AssignmentFailed},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidAssignmentStatus reports whether the value is a member of the enum.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentAssigned, AssignmentInTransit, AssignmentDelivered, AssignmentFailed:
		return true
	}
	return false
}

var ErrOrderAlreadyAssigned = errors.New("order already assigned")
var ErrAssignmentNotFound = errors.New("assignment not found")

// DeliveryAssignment binds one order to one courier. At most one
// assignment exists per order, enforced by a unique index on
// order_reference rather than by application-level checks.
type DeliveryAssignment struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	OrderReference string           `json:"order_reference" bson:"order_reference"`
	CourierID      string           `json:"courier_id" bson:"courier_id"`
	AssignedBy     string           `json:"assigned_by" bson:"assigned_by"`
	Status         AssignmentStatus `json:"status" bson:"status"`
	Notes          string           `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedAt     time.Time        `json:"assigned_at" bson:"assigned_at"`
	DeliveredAt    *time.Time       `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
}
