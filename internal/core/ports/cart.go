package ports

import (
	"context"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// CartStore persists one cart per user.
type CartStore interface {
	// Get returns the user's cart, or an empty cart when none is stored.
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// CartView is the cart plus derived fields returned to clients.
type CartView struct {
	Cart  *domain.Cart
	Total float64
	Count int
	// Capped is set when the requested quantity exceeded available stock
	// and was reduced; it names the affected product for the notice.
	Capped        bool
	CappedProduct string
	CappedAt      int
}

// CartService defines cart use cases. Mutations re-check live stock and
// cap quantities rather than failing the whole request.
type CartService interface {
	Get(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error)
	// UpdateQuantity sets the line quantity. Zero or negative converges
	// to removal.
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*CartView, error)
	Clear(ctx context.Context, userID string) error
}
