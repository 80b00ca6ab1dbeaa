package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

type eventService struct {
	repo   ports.EventRepository
	dedup  ports.DedupChecker
	logger zerolog.Logger
}

// NewEventService returns an EventService that appends lifecycle events
// to the audit trail. State transitions were already validated by the
// service that produced the event; this path only records them.
func NewEventService(repo ports.EventRepository, dedup ports.DedupChecker, logger zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, dedup: dedup, logger: logger}
}

// Process deduplicates and persists a single lifecycle event.
func (s *eventService) Process(ctx context.Context, event domain.OrderEvent) error {
	start := time.Now()

	// 1. Idempotency check: silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, event.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		s.logger.Debug().Str("event_id", event.ID).Str("reference", event.OrderReference).Msg("duplicate event skipped")
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, event.ID); markErr != nil {
		s.logger.Warn().Err(markErr).Str("event_id", event.ID).Msg("failed to set dedup key")
	}

	// 3. Append to the audit trail.
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	metrics.EventsProcessedTotal.WithLabelValues(string(event.Kind)).Inc()
	metrics.EventProcessingDuration.WithLabelValues(string(event.Kind)).Observe(time.Since(start).Seconds())

	s.logger.Info().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Str("reference", event.OrderReference).
		Msg("event processed")

	return nil
}
