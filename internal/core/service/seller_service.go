package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

// SellerService implements the seller dashboard operations. Every view is
// restricted to the seller's own order lines.
type SellerService struct {
	orders ports.OrderRepository
	events ports.EventPublisher
	logger zerolog.Logger
}

func NewSellerService(orders ports.OrderRepository, events ports.EventPublisher, logger zerolog.Logger) *SellerService {
	return &SellerService{orders: orders, events: events, logger: logger}
}

// Sales aggregates revenue and units over the seller's lines in orders
// that were paid for (any status except pending and cancelled).
func (s *SellerService) Sales(ctx context.Context, sellerID string) (*ports.SellerSales, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID, "")
	if err != nil {
		return nil, err
	}

	out := &ports.SellerSales{}
	for _, o := range orders {
		if o.Status == domain.OrderPending || o.Status == domain.OrderCancelled {
			continue
		}
		items := o.SellerItems(sellerID)
		if len(items) == 0 {
			continue
		}
		out.OrderCount++
		for _, it := range items {
			out.Revenue += it.UnitPrice * float64(it.Quantity)
			out.UnitsSold += it.Quantity
		}
	}
	return out, nil
}

// PendingOrders returns paid orders awaiting the seller's fulfilment.
func (s *SellerService) PendingOrders(ctx context.Context, sellerID string) ([]ports.SellerOrder, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID, domain.OrderPaid)
	if err != nil {
		return nil, err
	}
	return sellerViews(orders, sellerID), nil
}

// Orders returns every order containing the seller's lines.
func (s *SellerService) Orders(ctx context.Context, sellerID string) ([]ports.SellerOrder, error) {
	orders, err := s.orders.ListBySeller(ctx, sellerID, "")
	if err != nil {
		return nil, err
	}
	return sellerViews(orders, sellerID), nil
}

// UpdateOrderStatus moves the order's fulfilment status along the allowed
// transitions. Only sellers involved in the order may change it.
func (s *SellerService) UpdateOrderStatus(ctx context.Context, input ports.UpdateOrderStatusInput) (*domain.Order, error) {
	next := domain.OrderStatus(input.Status)
	if !domain.ValidOrderStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, input.Status)
	}

	order, err := s.orders.FindByReference(ctx, input.Reference)
	if err != nil {
		return nil, err
	}
	if !order.InvolvesSeller(input.SellerID) {
		return nil, domain.ErrForbidden
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, next)
	}

	if err := s.orders.UpdateStatus(ctx, input.Reference, next); err != nil {
		return nil, err
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	if s.events != nil {
		s.events.Publish(domain.OrderEvent{
			ID:             uuid.NewString(),
			Kind:           domain.EventOrderStatusChanged,
			OrderReference: order.Reference,
			ActorID:        input.SellerID,
			Status:         string(next),
			OccurredAt:     time.Now().UTC(),
		})
	}
	s.logger.Info().Str("reference", order.Reference).Str("seller_id", input.SellerID).Str("status", string(next)).Msg("order status updated")
	return order, nil
}

func sellerViews(orders []*domain.Order, sellerID string) []ports.SellerOrder {
	views := make([]ports.SellerOrder, 0, len(orders))
	for _, o := range orders {
		items := o.SellerItems(sellerID)
		if len(items) == 0 {
			continue
		}
		var total float64
		for _, it := range items {
			total += it.UnitPrice * float64(it.Quantity)
		}
		views = append(views, ports.SellerOrder{
			Reference:      o.Reference,
			Status:         o.Status,
			DeliveryStatus: o.DeliveryStatus,
			Items:          items,
			ItemsTotal:     total,
			Shipping:       o.Shipping,
			CreatedAt:      o.CreatedAt,
		})
	}
	return views
}
