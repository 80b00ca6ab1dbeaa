package domain

import (
	"errors"
	"time"
)

// Role is the marketplace role attached to a user account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"

	// RoleUnresolved means the account has no role row. It is not a
	// synonym for customer: routing and display treat it as "no access".
	RoleUnresolved Role = ""
)

// registerableRoles are the roles an account may choose at sign-up.
// Admin is only ever granted by another admin.
var registerableRoles = map[Role]bool{
	RoleCustomer: true,
	RoleSeller:   true,
	RoleDelivery: true,
}

// assignableRoles are the roles an admin may grant.
var assignableRoles = map[Role]bool{
	RoleCustomer: true,
	RoleSeller:   true,
	RoleDelivery: true,
	RoleAdmin:    true,
}

// Registerable reports whether the role can be self-selected at registration.
func (r Role) Registerable() bool { return registerableRoles[r] }

// Assignable reports whether an admin may grant the role.
func (r Role) Assignable() bool { return assignableRoles[r] }

// Resolved reports whether the role is a concrete role (a role row exists).
func (r Role) Resolved() bool { return r != RoleUnresolved }

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid role")
var ErrRoleAlreadySet = errors.New("role already assigned")
var ErrForbidden = errors.New("access forbidden")

// User models an authenticated account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile carries the mutable per-account fields that are not identity.
// Online is meaningful for delivery accounts only and lives here as a
// dedicated field rather than inside a free-form answers blob.
type Profile struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	City      string    `json:"city,omitempty" bson:"city,omitempty"`
	ZipCode   string    `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	StoreName string    `json:"store_name,omitempty" bson:"store_name,omitempty"`
	Vehicle   string    `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	Online    bool      `json:"online" bson:"online"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
