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

type PayrollRepository struct {
	collection *mongo.Collection
}

func NewPayrollRepository(db *mongo.Database) *PayrollRepository {
	return &PayrollRepository{collection: config.GetCollection(db, config.CollPayrolls)}
}

func (r *PayrollRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var p models.Payroll
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFoundOr(err, apperror.ErrPayrollNotFound)
	}
	return &p, nil
}

func (r *PayrollRepository) FindByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var p models.Payroll
	if err := r.collection.FindOne(ctx, bson.M{"user": userID, "date": date}).Decode(&p); err != nil {
		return nil, notFoundOr(err, apperror.ErrPayrollNotFound)
	}
	return &p, nil
}

// FindLatestOpen is the newest payroll of a user that can still be changed.
func (r *PayrollRepository) FindLatestOpen(ctx context.Context, userID primitive.ObjectID) (*models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{"user": userID, "locked": bson.M{"$ne": true}, "withdrawn": bson.M{"$ne": true}}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var p models.Payroll
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&p); err != nil {
		return nil, notFoundOr(err, apperror.ErrPayrollNotFound)
	}
	return &p, nil
}

func (r *PayrollRepository) List(ctx context.Context, f models.PayrollFilter) ([]models.Payroll, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != nil {
		filter["user"] = *f.UserID
	}
	dateRange := bson.M{}
	if f.From != "" {
		dateRange["$gte"] = f.From
	}
	if f.To != "" {
		dateRange["$lte"] = f.To
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	if f.Approved != nil {
		filter["approved"] = *f.Approved
	}
	if f.Withdrawn != nil {
		filter["withdrawn"] = *f.Withdrawn
	}
	if f.Locked != nil {
		filter["locked"] = *f.Locked
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payrolls := []models.Payroll{}
	if err := cursor.All(ctx, &payrolls); err != nil {
		return nil, err
	}
	return payrolls, nil
}

// Create inserts p at version 1. A second payroll for the same user and day
// fails with a duplicate key error.
func (r *PayrollRepository) Create(ctx context.Context, p *models.Payroll) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Adjustments == nil {
		p.Adjustments = []models.Adjustment{}
	}
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, p)
	return err
}

// Update persists p if it is still at expected and bumps its version.
func (r *PayrollRepository) Update(ctx context.Context, p *models.Payroll, expected int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	p.Version = expected + 1
	p.UpdatedAt = time.Now()
	if err := replaceVersioned(ctx, r.collection, p.ID, expected, p, apperror.ErrPayrollNotFound); err != nil {
		p.Version = expected
		return err
	}
	return nil
}

func (r *PayrollRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.ErrPayrollNotFound
	}
	return nil
}
