package domain

import (
	"errors"
	"time"
)

// ApplicationStatus is the review state of a role application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

var ErrApplicationNotFound = errors.New("application not found")
var ErrApplicationExists = errors.New("pending application already exists")
var ErrApplicationClosed = errors.New("application already reviewed")

// RoleApplication is a user's request to be granted the seller or
// delivery role. A user holds at most one pending application; approval
// upserts the requested role.
type RoleApplication struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	UserID        string            `json:"user_id" bson:"user_id"`
	RequestedRole Role              `json:"requested_role" bson:"requested_role"`
	StoreName     string            `json:"store_name,omitempty" bson:"store_name,omitempty"`
	Vehicle       string            `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	Message       string            `json:"message,omitempty" bson:"message,omitempty"`
	Status        ApplicationStatus `json:"status" bson:"status"`
	ReviewedBy    string            `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
}
