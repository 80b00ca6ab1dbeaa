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

const collectionApplications = "role_applications"

// ApplicationRepository stores role applications. A partial unique index
// on user_id over pending documents allows one open application per user
// while keeping the closed history.
type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *domain.RoleApplication) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrApplicationExists
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.RoleApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.RoleApplication
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &a, nil
}

func (r *ApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*domain.RoleApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"status": string(status)},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]*domain.RoleApplication, 0)
	for cur.Next(ctx) {
		var a domain.RoleApplication
		if err := cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		cp := a
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (r *ApplicationRepository) SetStatus(ctx context.Context, id string, status domain.ApplicationStatus, reviewedBy string, reviewedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":      string(status),
		"reviewed_by": reviewedBy,
		"reviewed_at": reviewedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// EnsureIndexes creates the one-pending-application-per-user index.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(domain.ApplicationPending)}),
	})
	return err
}
