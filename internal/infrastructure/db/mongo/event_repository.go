package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

const collectionEvents = "order_events"

// EventRepository persists the order lifecycle audit trail.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type eventDoc struct {
	ID             string    `bson:"_id"`
	Kind           string    `bson:"kind"`
	OrderReference string    `bson:"order_reference"`
	ActorID        string    `bson:"actor_id"`
	Status         string    `bson:"status,omitempty"`
	Notes          string    `bson:"notes,omitempty"`
	OccurredAt     time.Time `bson:"occurred_at"`
	ProcessedAt    time.Time `bson:"processed_at"`
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := eventDoc{
		ID:             event.ID,
		Kind:           string(event.Kind),
		OrderReference: event.OrderReference,
		ActorID:        event.ActorID,
		Status:         event.Status,
		Notes:          event.Notes,
		OccurredAt:     event.OccurredAt.UTC(),
		ProcessedAt:    time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByReference(ctx context.Context, orderReference string, limit int) ([]*domain.OrderEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"order_reference": orderReference},
		options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.OrderEvent
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		out = append(out, &domain.OrderEvent{
			ID:             doc.ID,
			Kind:           domain.EventKind(doc.Kind),
			OrderReference: doc.OrderReference,
			ActorID:        doc.ActorID,
			Status:         doc.Status,
			Notes:          doc.Notes,
			OccurredAt:     doc.OccurredAt,
		})
	}
	return out, cur.Err()
}

// EnsureIndexes creates the per-order lookup index.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_reference", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}
