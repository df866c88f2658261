package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const dbTimeout = 10 * time.Second

// versionFilter matches id at the expected version. Documents written before
// versioning have no version field and count as version 0.
func versionFilter(id primitive.ObjectID, expected int64) bson.M {
	if expected == 0 {
		return bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"_id": id, "version": expected}
}

// replaceVersioned swaps the stored document for doc only if nobody else
// wrote it since it was read.
func replaceVersioned(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, expected int64, doc interface{}, notFound error) error {
	res, err := coll.ReplaceOne(ctx, versionFilter(id, expected), doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return apperror.ErrVersionConflict
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}
