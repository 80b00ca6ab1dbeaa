package ports

import (
	"context"
	"time"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// Actor identifies who is performing an operation, resolved by the auth
// layer. Services receive it explicitly instead of digging identity out
// of ambient state.
type Actor struct {
	UserID string
	Role   domain.Role
}

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	// CreateWithStockDeduction inserts the order and decrements each
	// product's stock in one transaction. Insufficient stock on any line
	// aborts the whole write with domain.ErrInsufficientStock.
	CreateWithStockDeduction(ctx context.Context, o *domain.Order) error
	FindByReference(ctx context.Context, reference string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*domain.Order, int64, error)
	// ListBySeller returns orders containing at least one line sold by
	// sellerID, optionally filtered by status (empty = all).
	ListBySeller(ctx context.Context, sellerID string, status domain.OrderStatus) ([]*domain.Order, error)
	// ListAvailableForDelivery returns claimable orders: paid and with
	// delivery still pending.
	ListAvailableForDelivery(ctx context.Context) ([]*domain.Order, error)
	List(ctx context.Context, page, limit int) ([]*domain.Order, int64, error)
	UpdateStatus(ctx context.Context, reference string, status domain.OrderStatus) error
	UpdateDeliveryStatus(ctx context.Context, reference string, status domain.DeliveryStatus) error
	CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error)
	// Revenue sums totals over orders that were paid for (every status
	// except pending and cancelled).
	Revenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Order, error)
}

// CheckoutInput carries everything needed to turn a cart into an order.
type CheckoutInput struct {
	UserID        string
	Recipient     string
	Phone         string
	Address       string
	City          string
	ZipCode       string
	PaymentMethod string
}

// OrderPage is one page of orders with the total count.
type OrderPage struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines the customer-facing order use cases.
type OrderService interface {
	// PlaceOrder validates the cart against live stock as the final gate,
	// writes the order atomically and clears the cart.
	PlaceOrder(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	ListMine(ctx context.Context, userID string, page, limit int) (*OrderPage, error)
	// GetOrder enforces access: the purchaser, an involved seller, the
	// assigned courier and admins may read an order.
	GetOrder(ctx context.Context, reference string, actor Actor) (*domain.Order, error)
}

// SellerSales aggregates a seller's performance over paid orders.
type SellerSales struct {
	Revenue    float64
	UnitsSold  int
	OrderCount int
}

// SellerOrder is one order restricted to the seller's own lines.
type SellerOrder struct {
	Reference      string
	Status         domain.OrderStatus
	DeliveryStatus domain.DeliveryStatus
	Items          []domain.OrderItem
	ItemsTotal     float64
	Shipping       domain.ShippingAddress
	CreatedAt      time.Time
}

// UpdateOrderStatusInput carries a seller's fulfilment status change.
type UpdateOrderStatusInput struct {
	SellerID  string
	Reference string
	Status    string
}

// SellerService defines the seller-facing order use cases.
type SellerService interface {
	Sales(ctx context.Context, sellerID string) (*SellerSales, error)
	PendingOrders(ctx context.Context, sellerID string) ([]SellerOrder, error)
	Orders(ctx context.Context, sellerID string) ([]SellerOrder, error)
	UpdateOrderStatus(ctx context.Context, input UpdateOrderStatusInput) (*domain.Order, error)
}
