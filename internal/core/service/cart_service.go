package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

// CartService implements the per-user cart. Every mutation re-reads the
// live product so prices are snapshotted at add time and quantities never
// exceed current stock; the cart itself is not a reservation.
type CartService struct {
	store    ports.CartStore
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewCartService(store ports.CartStore, products ports.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{store: store, products: products, logger: logger}
}

func (s *CartService) Get(ctx context.Context, userID string) (*ports.CartView, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return view(cart), nil
}

// AddItem admits the product, capping the resulting line quantity at the
// available stock. A capped request succeeds and carries a notice instead
// of failing the whole mutation.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*ports.CartView, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock <= 0 {
		return nil, domain.ErrInsufficientStock
	}

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	if i := cart.Find(productID); i >= 0 {
		requested += cart.Items[i].Quantity
	}

	admitted, capped := capQuantity(requested, product.Stock)

	if i := cart.Find(productID); i >= 0 {
		cart.Items[i].Quantity = admitted
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			ImageURL:      product.ImageURL,
			Quantity:      admitted,
			AddedAt:       time.Now().UTC(),
		})
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	out := view(cart)
	if capped {
		metrics.CartStockCapsTotal.Inc()
		out.Capped = true
		out.CappedProduct = product.Name
		out.CappedAt = product.Stock
		s.logger.Debug().Str("user_id", userID).Str("product_id", productID).Int("stock", product.Stock).Msg("cart quantity capped at stock")
	}
	return out, nil
}

// UpdateQuantity sets the line quantity; zero or negative removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*ports.CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Find(productID) < 0 {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	admitted, capped := capQuantity(quantity, product.Stock)
	if admitted == 0 {
		cart.Remove(productID)
	} else {
		cart.Items[cart.Find(productID)].Quantity = admitted
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	out := view(cart)
	if capped {
		metrics.CartStockCapsTotal.Inc()
		out.Capped = true
		out.CappedProduct = product.Name
		out.CappedAt = product.Stock
	}
	return out, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*ports.CartView, error) {
	cart, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, cart)
}

func capQuantity(requested, stock int) (admitted int, capped bool) {
	if stock < 0 {
		stock = 0
	}
	if requested > stock {
		return stock, true
	}
	return requested, false
}

func view(cart *domain.Cart) *ports.CartView {
	return &ports.CartView{
		Cart:  cart,
		Total: cart.Total(),
		Count: cart.Count(),
	}
}
