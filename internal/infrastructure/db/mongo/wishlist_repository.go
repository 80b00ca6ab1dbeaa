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

const collectionWishlists = "wishlist_items"

// WishlistRepository stores wishlist entries. Add is an upsert, so
// re-adding a product is a no-op rather than an error.
type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection(collectionWishlists)}
}

func (r *WishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": item.UserID, "product_id": item.ProductID},
		bson.M{"$setOnInsert": bson.M{"added_at": item.AddedAt.UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "product_id": productID}); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.WishlistItem
	for cur.Next(ctx) {
		var item domain.WishlistItem
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("decode wishlist item: %w", err)
		}
		cp := item
		out = append(out, &cp)
	}
	return out, cur.Err()
}

// EnsureIndexes creates the unique (user_id, product_id) index.
func (r *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
