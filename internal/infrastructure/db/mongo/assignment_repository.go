package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

const collectionAssignments = "delivery_assignments"

type AssignmentRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{db: db, col: db.Collection(collectionAssignments)}
}

// Claim inserts the assignment and moves the order's delivery status from
// pending to assigned in one transaction. The unique order_reference
// index makes the insert the arbiter of races: the loser's insert fails
// with a duplicate key and the whole transaction rolls back.
func (r *AssignmentRepository) Claim(ctx context.Context, a *domain.DeliveryAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	orders := r.db.Collection(collectionOrders)

	err := inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.col.InsertOne(sc, a); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrOrderAlreadyAssigned
			}
			return fmt.Errorf("insert assignment: %w", err)
		}

		res, err := orders.UpdateOne(sc,
			bson.M{
				"reference":       a.OrderReference,
				"status":          string(domain.OrderPaid),
				"delivery_status": string(domain.DeliveryPending),
			},
			bson.M{"$set": bson.M{
				"delivery_status": string(domain.DeliveryAssigned),
				"updated_at":      time.Now().UTC(),
			}},
		)
		if err != nil {
			return fmt.Errorf("mark order assigned: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrOrderNotAvailable
		}
		return nil
	})
	return err
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.DeliveryAssignment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) FindByOrderReference(ctx context.Context, reference string) (*domain.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.DeliveryAssignment
	if err := r.col.FindOne(ctx, bson.M{"order_reference": reference}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("find assignment by reference: %w", err)
	}
	return &a, nil
}

func (r *AssignmentRepository) ListByCourier(ctx context.Context, courierID string) ([]*domain.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.decodeAll(ctx, bson.M{"courier_id": courierID},
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}}))
}

// UpdateStatus persists a courier's status change. When the new status is
// delivered, the order's delivery_status moves in the same transaction so
// the pair never splits.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status domain.AssignmentStatus, notes string, deliveredAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"status": string(status)}
	if notes != "" {
		set["notes"] = notes
	}
	if deliveredAt != nil {
		set["delivered_at"] = deliveredAt.UTC()
	}

	if status != domain.AssignmentDelivered {
		res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
		if err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrAssignmentNotFound
		}
		return nil
	}

	orders := r.db.Collection(collectionOrders)
	return inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		var a domain.DeliveryAssignment
		if err := r.col.FindOneAndUpdate(sc, bson.M{"_id": id}, bson.M{"$set": set}).Decode(&a); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrAssignmentNotFound
			}
			return fmt.Errorf("update assignment: %w", err)
		}

		_, err := orders.UpdateOne(sc,
			bson.M{"reference": a.OrderReference},
			bson.M{"$set": bson.M{
				"delivery_status": string(domain.DeliveryComplete),
				"updated_at":      time.Now().UTC(),
			}},
		)
		if err != nil {
			return fmt.Errorf("mark order delivered: %w", err)
		}
		return nil
	})
}

func (r *AssignmentRepository) CountByStatus(ctx context.Context, courierID string) (map[domain.AssignmentStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if courierID != "" {
		match["courier_id"] = courierID
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[domain.AssignmentStatus]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode assignment count: %w", err)
		}
		out[domain.AssignmentStatus(row.Status)] = row.Count
	}
	return out, cur.Err()
}

func (r *AssignmentRepository) RecentDelivered(ctx context.Context, courierID string, limit int) ([]*domain.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"courier_id": courierID,
		"status":     string(domain.AssignmentDelivered),
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "delivered_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.decodeAll(ctx, filter, opts)
}

// ListWithPendingOrders returns assignments whose order still shows
// delivery_status=pending, the drift left by a crash between the claim's
// insert and the order update before both moved into one transaction.
func (r *AssignmentRepository) ListWithPendingOrders(ctx context.Context) ([]*domain.DeliveryAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionOrders,
			"localField":   "order_reference",
			"foreignField": "reference",
			"as":           "order",
		}}},
		{{Key: "$unwind", Value: "$order"}},
		{{Key: "$match", Value: bson.M{"order.delivery_status": string(domain.DeliveryPending)}}},
		{{Key: "$project", Value: bson.M{"order": 0}}},
	})
	if err != nil {
		return nil, fmt.Errorf("list drifted assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.DeliveryAssignment
	for cur.Next(ctx) {
		var a domain.DeliveryAssignment
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		cp := a
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (r *AssignmentRepository) decodeAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.DeliveryAssignment, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.DeliveryAssignment
	for cur.Next(ctx) {
		var a domain.DeliveryAssignment
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode assignment: %w", err)
		}
		cp := a
		out = append(out, &cp)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the claim-arbiter and courier indexes.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "courier_id", Value: 1}, {Key: "assigned_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
