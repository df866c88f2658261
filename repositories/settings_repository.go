package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: config.GetCollection(db, config.CollSystemSettings)}
}

// GetOrCreate returns the singleton, inserting defaults when none exists.
func (r *SettingsRepository) GetOrCreate(ctx context.Context, defaults *models.SystemSettings) (*models.SystemSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var settings models.SystemSettings
	err := r.collection.FindOneAndUpdate(ctx, bson.M{}, bson.M{"$setOnInsert": defaults}, opts).Decode(&settings)
	if err != nil {
		return nil, err
	}
	if settings.BaseSalary == nil {
		settings.BaseSalary = map[string]float64{}
	}
	return &settings, nil
}

// Replace writes s over the stored singleton if it is still at expected.
func (r *SettingsRepository) Replace(ctx context.Context, s *models.SystemSettings, expected int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	s.Version = expected + 1
	s.UpdatedAt = time.Now()
	if err := replaceVersioned(ctx, r.collection, s.ID, expected, s, apperror.ErrSettingsNotFound); err != nil {
		s.Version = expected
		return err
	}
	return nil
}
