package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

// ReconcileService repairs order/assignment drift: orders still showing
// delivery pending although an assignment row exists. The claim path
// writes both atomically, so drift only comes from data predating that
// fix or from manual edits; the sweep keeps the pair consistent either way.
type ReconcileService struct {
	assignments ports.AssignmentRepository
	orders      ports.OrderRepository
	logger      zerolog.Logger
}

func NewReconcileService(assignments ports.AssignmentRepository, orders ports.OrderRepository, logger zerolog.Logger) *ReconcileService {
	return &ReconcileService{assignments: assignments, orders: orders, logger: logger}
}

// Run performs one sweep. Individual repair failures are logged and do
// not stop the pass.
func (s *ReconcileService) Run(ctx context.Context) error {
	orphaned, err := s.assignments.ListWithPendingOrders(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	if len(orphaned) == 0 {
		s.logger.Debug().Msg("reconcile pass found no drift")
		return nil
	}

	repaired := 0
	for _, a := range orphaned {
		target := domain.DeliveryAssigned
		if a.Status == domain.AssignmentDelivered {
			target = domain.DeliveryComplete
		}
		if err := s.orders.UpdateDeliveryStatus(ctx, a.OrderReference, target); err != nil {
			s.logger.Error().Err(err).Str("reference", a.OrderReference).Msg("failed to repair order delivery status")
			continue
		}
		repaired++
		metrics.ReconcilerRepairsTotal.Inc()
		s.logger.Warn().
			Str("reference", a.OrderReference).
			Str("assignment_id", a.ID).
			Str("target", string(target)).
			Msg("repaired drifted order delivery status")
	}

	s.logger.Info().Int("found", len(orphaned)).Int("repaired", repaired).Msg("reconcile pass finished")
	return nil
}
