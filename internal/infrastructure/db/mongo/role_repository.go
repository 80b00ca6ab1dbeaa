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

const collectionRoles = "user_roles"

// RoleRepository stores one role row per user, keyed by user id. A
// missing row is a valid state (unresolved), never an error.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDoc struct {
	UserID    string    `bson:"_id"`
	Role      string    `bson:"role"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *RoleRepository) Get(ctx context.Context, userID string) (domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.RoleUnresolved, nil
		}
		return domain.RoleUnresolved, fmt.Errorf("find role: %w", err)
	}
	return domain.Role(doc.Role), nil
}

func (r *RoleRepository) Upsert(ctx context.Context, userID string, role domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role": string(role), "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}

func (r *RoleRepository) GetMany(ctx context.Context, userIDs []string) (map[string]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]domain.Role, len(userIDs))
	for cur.Next(ctx) {
		var doc roleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		out[doc.UserID] = domain.Role(doc.Role)
	}
	return out, cur.Err()
}
