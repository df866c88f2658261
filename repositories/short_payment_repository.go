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

type ShortPaymentRepository struct {
	collection *mongo.Collection
}

func NewShortPaymentRepository(db *mongo.Database) *ShortPaymentRepository {
	return &ShortPaymentRepository{collection: config.GetCollection(db, config.CollShortPayments)}
}

func (r *ShortPaymentRepository) Create(ctx context.Context, plan *models.ShortPayment) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	now := time.Now()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	plan.Version = 1
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, plan)
	return err
}

func (r *ShortPaymentRepository) Update(ctx context.Context, plan *models.ShortPayment, expected int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	plan.Version = expected + 1
	plan.UpdatedAt = time.Now()
	if err := replaceVersioned(ctx, r.collection, plan.ID, expected, plan, apperror.ErrShortPlanNotFound); err != nil {
		plan.Version = expected
		return err
	}
	return nil
}

// FindDue lists active plans whose next installment is due at or before now.
func (r *ShortPaymentRepository) FindDue(ctx context.Context, now time.Time) ([]models.ShortPayment, error) {
	return r.find(ctx, bson.M{
		"status":    models.ShortPaymentActive,
		"nextDueAt": bson.M{"$lte": now},
	})
}

func (r *ShortPaymentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ShortPayment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *ShortPaymentRepository) find(ctx context.Context, filter bson.M) ([]models.ShortPayment, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []models.ShortPayment{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
