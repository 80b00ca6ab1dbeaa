package ports

import (
	"context"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users matching ids, keyed by id. Missing ids
	// are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// RoleRepository is the single source of truth for role assignments.
type RoleRepository interface {
	// Get returns the user's role. A missing role row yields
	// domain.RoleUnresolved with a nil error; absence is a valid state,
	// not a lookup failure.
	Get(ctx context.Context, userID string) (domain.Role, error)
	// Upsert writes the role row, creating it when absent. Role rows are
	// never deleted.
	Upsert(ctx context.Context, userID string, role domain.Role) error
	// GetMany returns roles keyed by user id; users without a role row
	// are absent from the map.
	GetMany(ctx context.Context, userIDs []string) (map[string]domain.Role, error)
}

// ProfileRepository defines persistence for per-account profile fields.
type ProfileRepository interface {
	Upsert(ctx context.Context, p *domain.Profile) error
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error)
	SetOnline(ctx context.Context, userID string, online bool) error
}

// RegisterInput carries the sign-up form. Role must be registerable;
// StoreName and Vehicle are the role-specific extras captured at sign-up.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Phone     string
	StoreName string
	Vehicle   string
}

// LoginResult is returned after successful authentication.
type LoginResult struct {
	Token string
	User  *domain.User
	Role  domain.Role
}

// Account is the self-view returned by the me endpoint. RoleResolved
// distinguishes "no role row" from a concrete role so display code never
// invents a default.
type Account struct {
	User         *domain.User
	Role         domain.Role
	RoleResolved bool
	Profile      *domain.Profile
}

// UpdatePasswordInput carries a password change request.
type UpdatePasswordInput struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

// ApplyRoleInput is a user's request for the seller or delivery role.
type ApplyRoleInput struct {
	UserID    string
	Role      string
	StoreName string
	Vehicle   string
	Message   string
}

// AuthService defines account use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Account(ctx context.Context, userID string) (*Account, error)
	UpdatePassword(ctx context.Context, input UpdatePasswordInput) error
	// RepairRole assigns the customer role to an account that has no role
	// row. It is the explicit user-triggered fix behind the account-issue
	// screen and fails if a role row already exists.
	RepairRole(ctx context.Context, userID string) error
	ApplyForRole(ctx context.Context, input ApplyRoleInput) (*domain.RoleApplication, error)
}

// SessionService resolves a bearer token into a terminal auth state.
type SessionService interface {
	Resolve(ctx context.Context, token string) domain.AuthState
}
