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

const collectionReviews = "reviews"

// ReviewRepository stores product reviews. The unique (product_id,
// user_id) index enforces one review per user per product.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"product_id": productID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Review
	for cur.Next(ctx) {
		var rv domain.Review
		if err := cur.Decode(&rv); err != nil {
			return nil, fmt.Errorf("decode review: %w", err)
		}
		cp := rv
		out = append(out, &cp)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the one-review-per-user-per-product index.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "product_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
