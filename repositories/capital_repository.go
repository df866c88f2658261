package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CapitalRepository struct {
	collection *mongo.Collection
}

func NewCapitalRepository(db *mongo.Database) *CapitalRepository {
	return &CapitalRepository{collection: config.GetCollection(db, config.CollCapitals)}
}

// FindActive returns the teller's most recent non-completed float.
func (r *CapitalRepository) FindActive(ctx context.Context, tellerID primitive.ObjectID) (*models.Capital, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{
		"tellerId": tellerID,
		"type":     models.CapitalTypeCapital,
		"status":   models.CapitalStatusActive,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var c models.Capital
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&c); err != nil {
		return nil, notFoundOr(err, apperror.ErrCapitalNotFound)
	}
	return &c, nil
}

// Insert stores a float or a ledger entry.
func (r *CapitalRepository) Insert(ctx context.Context, c *models.Capital) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *CapitalRepository) Update(ctx context.Context, c *models.Capital, expected int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	c.Version = expected + 1
	c.UpdatedAt = time.Now()
	if err := replaceVersioned(ctx, r.collection, c.ID, expected, c, apperror.ErrCapitalNotFound); err != nil {
		c.Version = expected
		return err
	}
	return nil
}

// DeleteWithEntries removes a float and every entry recorded against it.
func (r *CapitalRepository) DeleteWithEntries(ctx context.Context, id primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": id},
		bson.M{"parentId": id},
	}})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, apperror.ErrCapitalNotFound
	}
	return res.DeletedCount, nil
}

func (r *CapitalRepository) History(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.Capital, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"tellerId": tellerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	history := []models.Capital{}
	if err := cursor.All(ctx, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ActivityForDay reports which side of capital issuance a user was on that day.
// Remittances do not count: they return cash, they do not hand it out.
func (r *CapitalRepository) ActivityForDay(ctx context.Context, userID primitive.ObjectID, date string) (models.CapitalActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	issued := bson.M{"$in": bson.A{models.CapitalTypeCapital, models.CapitalTypeAdditional}}
	var activity models.CapitalActivity

	received, err := r.collection.CountDocuments(ctx, bson.M{"tellerId": userID, "date": date, "type": issued})
	if err != nil {
		return activity, err
	}
	gave, err := r.collection.CountDocuments(ctx, bson.M{"supervisorId": userID, "date": date, "type": issued})
	if err != nil {
		return activity, err
	}

	activity.ReceivedAsTeller = received > 0
	activity.GaveAsSupervisor = gave > 0
	return activity, nil
}
