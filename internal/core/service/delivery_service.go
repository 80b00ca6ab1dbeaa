package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

const (
	availableListRetries  = 2
	availableListBaseWait = 150 * time.Millisecond
	availableListMaxWait  = time.Second
	recentDeliveredLimit  = 5
)

// DeliveryService implements the courier workflow: browsing claimable
// orders, the atomic claim, status progression and stats.
type DeliveryService struct {
	assignments ports.AssignmentRepository
	orders      ports.OrderRepository
	profiles    ports.ProfileRepository
	events      ports.EventPublisher
	logger      zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewDeliveryService(
	assignments ports.AssignmentRepository,
	orders ports.OrderRepository,
	profiles ports.ProfileRepository,
	events ports.EventPublisher,
	logger zerolog.Logger,
) *DeliveryService {
	return &DeliveryService{
		assignments: assignments,
		orders:      orders,
		profiles:    profiles,
		events:      events,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

// AvailableOrders lists claimable orders: paid with delivery pending.
// Transient repository failures are retried twice with capped backoff
// before surfacing.
func (s *DeliveryService) AvailableOrders(ctx context.Context) ([]ports.AvailableOrder, error) {
	var orders []*domain.Order
	var err error
	for attempt := 0; ; attempt++ {
		orders, err = s.orders.ListAvailableForDelivery(ctx)
		if err == nil {
			break
		}
		if attempt >= availableListRetries {
			return nil, fmt.Errorf("list available orders: %w", err)
		}
		s.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("available orders query failed, retrying")
		wait := availableListBaseWait << attempt
		if wait > availableListMaxWait {
			wait = availableListMaxWait
		}
		if err := s.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	views := make([]ports.AvailableOrder, 0, len(orders))
	for _, o := range orders {
		views = append(views, ports.AvailableOrder{
			Reference: o.Reference,
			ItemCount: len(o.Items),
			Total:     o.Total,
			City:      o.Shipping.City,
			Address:   o.Shipping.Address,
			CreatedAt: o.CreatedAt,
		})
	}
	return views, nil
}

// Claim assigns the order to the courier. The repository performs the
// insert and the order update as one transaction; losing a race surfaces
// as ErrOrderAlreadyAssigned with no partial writes, so double claims can
// never produce a second assignment row.
func (s *DeliveryService) Claim(ctx context.Context, courierID, assignedBy, orderReference string) (*domain.DeliveryAssignment, error) {
	assignment := &domain.DeliveryAssignment{
		ID:             uuid.NewString(),
		OrderReference: orderReference,
		CourierID:      courierID,
		AssignedBy:     assignedBy,
		Status:         domain.AssignmentAssigned,
		AssignedAt:     time.Now().UTC(),
	}

	if err := s.assignments.Claim(ctx, assignment); err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderAlreadyAssigned):
			metrics.ClaimConflictsTotal.WithLabelValues("already_assigned").Inc()
		case errors.Is(err, domain.ErrOrderNotAvailable):
			metrics.ClaimConflictsTotal.WithLabelValues("not_available").Inc()
		}
		return nil, err
	}

	by := "courier"
	if assignedBy != courierID {
		by = "admin"
	}
	metrics.OrdersClaimedTotal.WithLabelValues(by).Inc()
	s.publish(domain.EventOrderClaimed, orderReference, courierID, string(domain.AssignmentAssigned), "")
	s.logger.Info().Str("reference", orderReference).Str("courier_id", courierID).Str("assigned_by", assignedBy).Msg("order claimed")
	return assignment, nil
}

func (s *DeliveryService) Assignments(ctx context.Context, courierID string) ([]*domain.DeliveryAssignment, error) {
	return s.assignments.ListByCourier(ctx, courierID)
}

// UpdateStatus progresses the courier's own assignment along the allowed
// transitions. Delivered stamps delivered_at and propagates the order's
// delivery status in the same repository transaction.
func (s *DeliveryService) UpdateStatus(ctx context.Context, input ports.UpdateAssignmentInput) (*domain.DeliveryAssignment, error) {
	next := domain.AssignmentStatus(input.Status)
	if !domain.ValidAssignmentStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, input.Status)
	}

	assignment, err := s.assignments.FindByID(ctx, input.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.CourierID != input.CourierID {
		return nil, domain.ErrForbidden
	}
	if !assignment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, assignment.Status, next)
	}

	var deliveredAt *time.Time
	if next == domain.AssignmentDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	if err := s.assignments.UpdateStatus(ctx, assignment.ID, next, input.Notes, deliveredAt); err != nil {
		return nil, err
	}

	assignment.Status = next
	if input.Notes != "" {
		assignment.Notes = input.Notes
	}
	assignment.DeliveredAt = deliveredAt

	metrics.DeliveryStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	s.publish(domain.EventDeliveryUpdated, assignment.OrderReference, input.CourierID, string(next), input.Notes)
	s.logger.Info().Str("assignment_id", assignment.ID).Str("reference", assignment.OrderReference).Str("status", string(next)).Msg("delivery status updated")
	return assignment, nil
}

// Stats summarizes the courier's workload: counts by status plus the last
// few delivered assignments.
func (s *DeliveryService) Stats(ctx context.Context, courierID string) (*ports.DeliveryStats, error) {
	counts, err := s.assignments.CountByStatus(ctx, courierID)
	if err != nil {
		return nil, err
	}
	recent, err := s.assignments.RecentDelivered(ctx, courierID, recentDeliveredLimit)
	if err != nil {
		return nil, err
	}
	return &ports.DeliveryStats{Counts: counts, RecentDelivered: recent}, nil
}

func (s *DeliveryService) OnlineStatus(ctx context.Context, courierID string) (bool, error) {
	profile, err := s.profiles.FindByUserID(ctx, courierID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Online, nil
}

func (s *DeliveryService) SetOnlineStatus(ctx context.Context, courierID string, online bool) error {
	if err := s.profiles.SetOnline(ctx, courierID, online); err != nil {
		return err
	}
	s.logger.Debug().Str("courier_id", courierID).Bool("online", online).Msg("online status set")
	return nil
}

func (s *DeliveryService) publish(kind domain.EventKind, reference, actorID, status, notes string) {
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
