package repositories

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TellerReportRepository struct {
	collection *mongo.Collection
}

func NewTellerReportRepository(db *mongo.Database) *TellerReportRepository {
	return &TellerReportRepository{collection: config.GetCollection(db, config.CollTellerReports)}
}

func (r *TellerReportRepository) Create(ctx context.Context, report *models.TellerReport) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	report.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, report)
	return err
}

func (r *TellerReportRepository) ListForDay(ctx context.Context, tellerID primitive.ObjectID, date string) ([]models.TellerReport, error) {
	return r.find(ctx, bson.M{"tellerId": tellerID, "date": date}, 0)
}

func (r *TellerReportRepository) ListByTeller(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.TellerReport, error) {
	return r.find(ctx, bson.M{"tellerId": tellerID}, limit)
}

func (r *TellerReportRepository) find(ctx context.Context, filter bson.M, limit int64) ([]models.TellerReport, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.TellerReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
