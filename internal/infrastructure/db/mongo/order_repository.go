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

const collectionOrders = "orders"

type OrderRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db, col: db.Collection(collectionOrders)}
}

// CreateWithStockDeduction inserts the order and decrements each line's
// stock in one transaction. Every decrement is conditional on enough
// stock remaining, so a line that raced to zero aborts the whole write.
func (r *OrderRepository) CreateWithStockDeduction(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	products := r.db.Collection(collectionProducts)

	err := inTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		for _, it := range o.Items {
			res, err := products.UpdateOne(sc,
				bson.M{"_id": it.ProductID, "stock": bson.M{"$gte": it.Quantity}},
				bson.M{"$inc": bson.M{"stock": -it.Quantity}},
			)
			if err != nil {
				return fmt.Errorf("deduct stock: %w", err)
			}
			if res.MatchedCount == 0 {
				// distinguish a missing product from a sold-out one
				n, err := products.CountDocuments(sc, bson.M{"_id": it.ProductID})
				if err != nil {
					return fmt.Errorf("check product: %w", err)
				}
				if n == 0 {
					return domain.ErrProductNotFound
				}
				return fmt.Errorf("product %q: %w", it.Name, domain.ErrInsufficientStock)
			}
		}

		if _, err := r.col.InsertOne(sc, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	return err
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	if err := r.col.FindOne(ctx, bson.M{"reference": reference}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"customer_id": customerID}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	orders, err := r.decodeAll(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID string, status domain.OrderStatus) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"items.seller_id": sellerID}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.decodeAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *OrderRepository) ListAvailableForDelivery(ctx context.Context) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"status":          string(domain.OrderPaid),
		"delivery_status": string(domain.DeliveryPending),
	}
	return r.decodeAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *OrderRepository) List(ctx context.Context, page, limit int) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	orders, err := r.decodeAll(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, reference string, status domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"reference": reference}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) UpdateDeliveryStatus(ctx context.Context, reference string, status domain.DeliveryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"reference": reference}, bson.M{"$set": bson.M{
		"delivery_status": string(status),
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update delivery status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[domain.OrderStatus]int64)
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status count: %w", err)
		}
		out[domain.OrderStatus(row.Status)] = row.Count
	}
	return out, cur.Err()
}

// Revenue sums totals over orders that were paid for, excluding pending
// and cancelled ones.
func (r *OrderRepository) Revenue(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$nin": bson.A{
			string(domain.OrderPending), string(domain.OrderCancelled),
		}}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	defer cur.Close(ctx)

	var row struct {
		Revenue float64 `bson:"revenue"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode revenue: %w", err)
		}
	}
	return row.Revenue, cur.Err()
}

func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.decodeAll(ctx, bson.M{}, opts)
}

func (r *OrderRepository) decodeAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Order, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Order
	for cur.Next(ctx) {
		var o domain.Order
		if err := cur.Decode(&o); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		cp := o
		out = append(out, &cp)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the reference and query-path indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "items.seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "delivery_status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
