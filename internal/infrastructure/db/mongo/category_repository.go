package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

const collectionCategories = "categories"

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Category
	for cur.Next(ctx) {
		var c domain.Category
		if err := cur.Decode(&c); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		cp := c
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (r *CategoryRepository) Upsert(ctx context.Context, c *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": c.Name},
		bson.M{"$set": bson.M{"description": c.Description, "image_url": c.ImageURL}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}
