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

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": p.UserID},
		bson.M{"$set": p},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]*domain.Profile, len(userIDs))
	for cur.Next(ctx) {
		var p domain.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		cp := p
		out[p.UserID] = &cp
	}
	return out, cur.Err()
}

func (r *ProfileRepository) SetOnline(ctx context.Context, userID string, online bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"online": online, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set online: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique user_id index.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
