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

const collectionSettings = "store_settings"

// settingsDocID keys the single settings document.
const settingsDocID = "store"

type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(collectionSettings)}
}

// Get returns the stored settings, or the defaults when the document has
// never been written.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.StoreSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.StoreSettings
	if err := r.col.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			def := domain.DefaultStoreSettings()
			return &def, nil
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *domain.StoreSettings) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	s.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": settingsDocID},
		bson.M{"$set": s},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
