package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

// OrderService implements checkout and customer order reads.
type OrderService struct {
	orders      ports.OrderRepository
	products    ports.ProductRepository
	cart        ports.CartStore
	assignments ports.AssignmentRepository
	settings    ports.SettingsRepository
	events      ports.EventPublisher
	logger      zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	cart ports.CartStore,
	assignments ports.AssignmentRepository,
	settings ports.SettingsRepository,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		cart:        cart,
		assignments: assignments,
		settings:    settings,
		events:      events,
		logger:      logger,
	}
}

// PlaceOrder turns the caller's cart into a paid order. Live products are
// re-read so the charged price and stock are current; the stock decrement
// and the order insert commit atomically. The cart is the input, never a
// reservation.
func (s *OrderService) PlaceOrder(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	cart, err := s.cart.Get(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// 1. Re-resolve every line against the live catalog.
	items := make([]domain.OrderItem, 0, len(cart.Items))
	var itemsTotal float64
	for _, line := range cart.Items {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("checkout %q: %w", line.Name, err)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("checkout %q: %w", product.Name, domain.ErrInsufficientStock)
		}
		price := product.EffectivePrice()
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			UnitPrice: price,
			Quantity:  line.Quantity,
			ImageURL:  product.ImageURL,
		})
		itemsTotal += price * float64(line.Quantity)
	}

	// 2. Shipping fee from store settings.
	fee := 0.0
	if cfg, err := s.settings.Get(ctx); err == nil {
		if itemsTotal < cfg.FreeShippingThreshold {
			fee = cfg.ShippingFee
		}
	} else {
		s.logger.Warn().Err(err).Msg("store settings unavailable, shipping free of charge")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:          uuid.NewString(),
		Reference:   generateOrderReference(),
		CustomerID:  input.UserID,
		Items:       items,
		Total:       itemsTotal + fee,
		ShippingFee: fee,
		Shipping: domain.ShippingAddress{
			Recipient: input.Recipient,
			Phone:     input.Phone,
			Address:   input.Address,
			City:      input.City,
			ZipCode:   input.ZipCode,
		},
		PaymentMethod:  input.PaymentMethod,
		Status:         domain.OrderPaid,
		DeliveryStatus: domain.DeliveryPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 3. Atomic stock deduction + insert. A concurrent checkout that
	// drained stock first surfaces here as ErrInsufficientStock.
	if err := s.orders.CreateWithStockDeduction(ctx, order); err != nil {
		return nil, err
	}

	// 4. The cart served its purpose.
	if err := s.cart.Delete(ctx, input.UserID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", input.UserID).Msg("failed to clear cart after checkout")
	}

	metrics.OrdersPlacedTotal.WithLabelValues(order.PaymentMethod).Inc()
	s.publish(domain.EventOrderPlaced, order.Reference, input.UserID, string(order.Status), "")
	s.logger.Info().Str("reference", order.Reference).Str("user_id", input.UserID).Float64("total", order.Total).Msg("order placed")
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID string, page, limit int) (*ports.OrderPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.orders.ListByCustomer(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.OrderPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetOrder enforces the read policy: purchaser, involved sellers, the
// assigned courier and admins.
func (s *OrderService) GetOrder(ctx context.Context, reference string, actor ports.Actor) (*domain.Order, error) {
	order, err := s.orders.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.Role == domain.RoleAdmin:
	case order.CustomerID == actor.UserID:
	case actor.Role == domain.RoleSeller && order.InvolvesSeller(actor.UserID):
	case actor.Role == domain.RoleDelivery && s.isAssignedCourier(ctx, reference, actor.UserID):
	default:
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) isAssignedCourier(ctx context.Context, reference, courierID string) bool {
	a, err := s.assignments.FindByOrderReference(ctx, reference)
	if err != nil {
		return false
	}
	return a.CourierID == courierID
}

func (s *OrderService) publish(kind domain.EventKind, reference, actorID, status, notes string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.OrderEvent{
		ID:             uuid.NewString(),
		Kind:           kind,
		OrderReference: reference,
		ActorID:        actorID,
		Status:         status,
		Notes:          notes,
		OccurredAt:     time.Now().UTC(),
	})
}

// generateOrderReference returns a human-facing reference in the format WCG-XXXXXXXX.
func generateOrderReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("WCG-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("WCG-%08X", b)
}
