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

type ShiftRepository struct {
	collection *mongo.Collection
}

func NewShiftRepository(db *mongo.Database) *ShiftRepository {
	return &ShiftRepository{collection: config.GetCollection(db, config.CollShifts)}
}

func (r *ShiftRepository) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var s models.Shift
	if err := r.collection.FindOne(ctx, bson.M{"userId": userID, "date": date}).Decode(&s); err != nil {
		return nil, notFoundOr(err, apperror.ErrShiftNotFound)
	}
	return &s, nil
}

// Create inserts a new shift; the {userId, date} unique index turns a second
// insert into ErrDuplicateShift.
func (r *ShiftRepository) Create(ctx context.Context, s *models.Shift) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.WithCause(apperror.ErrDuplicateShift, err)
		}
		return err
	}
	return nil
}

// Upsert writes the shift for {userId, date}, creating it when absent.
func (r *ShiftRepository) Upsert(ctx context.Context, s *models.Shift) (*models.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	filter := bson.M{"userId": s.UserID, "date": s.Date}
	update := bson.M{
		"$set": bson.M{
			"assignedRole":   s.AssignedRole,
			"roleWorkedAs":   s.RoleWorkedAs,
			"baseSalaryUsed": s.BaseSalaryUsed,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.Shift
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ShiftRepository) History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	shifts := []models.Shift{}
	if err := cursor.All(ctx, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}
