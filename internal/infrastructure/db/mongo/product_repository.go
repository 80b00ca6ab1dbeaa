package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Product
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	byID := make(map[string]*domain.Product, len(ids))
	for cur.Next(ctx) {
		var p domain.Product
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		cp := p
		byID[p.ID] = &cp
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// preserve the caller's order, skipping missing ids
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}
	if filter.Query != "" {
		escaped := regexp.QuoteMeta(filter.Query)
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": escaped, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": escaped, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Product
	for cur.Next(ctx) {
		var p domain.Product
		if err := cur.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("decode product: %w", err)
		}
		cp := p
		out = append(out, &cp)
	}
	return out, total, cur.Err()
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// ApplyReview folds one new rating into the cached average in a single
// update. The pipeline evaluates both expressions against the document's
// pre-update values, so the average uses the old count.
func (r *ProductRepository) ApplyReview(ctx context.Context, productID string, rating int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := bson.A{bson.M{"$set": bson.M{
		"rating": bson.M{"$divide": bson.A{
			bson.M{"$add": bson.A{
				bson.M{"$multiply": bson.A{"$rating", "$review_count"}},
				rating,
			}},
			bson.M{"$add": bson.A{"$review_count", 1}},
		}},
		"review_count": bson.M{"$add": bson.A{"$review_count", 1}},
		"updated_at":   time.Now().UTC(),
	}}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": productID}, pipeline)
	if err != nil {
		return fmt.Errorf("apply review: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EnsureIndexes creates the browse and ownership indexes.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
