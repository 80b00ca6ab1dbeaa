package ports

import (
	"context"
	"time"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// ApplicationRepository defines persistence for role applications.
type ApplicationRepository interface {
	// Create inserts a pending application. A user may hold only one
	// pending application at a time; a second insert yields
	// domain.ErrApplicationExists.
	Create(ctx context.Context, a *domain.RoleApplication) error
	FindByID(ctx context.Context, id string) (*domain.RoleApplication, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*domain.RoleApplication, error)
	SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, reviewedBy string, reviewedAt time.Time) error
}

// SettingsRepository persists the singleton store settings document.
type SettingsRepository interface {
	// Get returns the stored settings, or the defaults when none exist.
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Update(ctx context.Context, s *domain.StoreSettings) error
}

// UserAccount joins a user with its role and profile for admin listings.
// RoleResolved is false for accounts without a role row; such accounts
// are shown as unresolved, never defaulted to customer.
type UserAccount struct {
	User         *domain.User
	Role         domain.Role
	RoleResolved bool
	Profile      *domain.Profile
}

// UserAccountPage is one page of admin user listings.
type UserAccountPage struct {
	Items      []UserAccount
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderWithCustomer pairs an order with its purchaser's identity.
type OrderWithCustomer struct {
	Order         *domain.Order
	CustomerName  string
	CustomerEmail string
}

// OrderWithCustomerPage is one page of admin order listings.
type OrderWithCustomerPage struct {
	Items      []OrderWithCustomer
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Analytics is the admin dashboard snapshot.
type Analytics struct {
	TotalUsers         int64
	TotalProducts      int64
	TotalOrders        int64
	Revenue            float64
	OrdersByStatus     map[domain.OrderStatus]int64
	AssignmentsByState map[domain.AssignmentStatus]int64
	RecentOrders       []*domain.Order
}

// UpdateSettingsInput carries the editable storefront settings.
type UpdateSettingsInput struct {
	StoreName             string
	SupportEmail          string
	Currency              string
	ShippingFee           float64
	FreeShippingThreshold float64
	MaintenanceMode       bool
}

// AdminService defines the admin-facing use cases.
type AdminService interface {
	Users(ctx context.Context, page, limit int) (*UserAccountPage, error)
	UpdateUserRole(ctx context.Context, userID, role string) error
	OrdersWithUsers(ctx context.Context, page, limit int) (*OrderWithCustomerPage, error)
	// AssignDelivery dispatches an order to a chosen courier through the
	// same atomic claim path couriers use.
	AssignDelivery(ctx context.Context, adminID, orderReference, courierID string) (*domain.DeliveryAssignment, error)
	Applications(ctx context.Context, status string) ([]*domain.RoleApplication, error)
	ApproveApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error)
	RejectApplication(ctx context.Context, adminID, applicationID string) (*domain.RoleApplication, error)
	Analytics(ctx context.Context) (*Analytics, error)
	StoreSettings(ctx context.Context) (*domain.StoreSettings, error)
	UpdateStoreSettings(ctx context.Context, input UpdateSettingsInput) (*domain.StoreSettings, error)
}
