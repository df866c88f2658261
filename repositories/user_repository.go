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
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: config.GetCollection(db, config.CollUsers)}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFoundOr(err, apperror.ErrUserNotFound)
	}
	return &user, nil
}

// UpdateBaseSalaryByRole cascades a settings change to every user's cached
// base salary.
func (r *UserRepository) UpdateBaseSalaryByRole(ctx context.Context, roles []string, salary float64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.UpdateMany(ctx,
		bson.M{"role": bson.M{"$in": roles}},
		bson.M{"$set": bson.M{"baseSalary": salary, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *UserRepository) SetBaseSalary(ctx context.Context, id primitive.ObjectID, salary float64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"baseSalary": salary, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}

// ClearSupervisorAssignments un-assigns every teller from their supervisor.
func (r *UserRepository) ClearSupervisorAssignments(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.UpdateMany(ctx,
		bson.M{"role": bson.M{"$in": bson.A{models.RoleTeller, models.RoleSupervisorTeller}}},
		bson.M{
			"$unset": bson.M{"supervisorId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *UserRepository) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.ErrUserNotFound
	}
	return nil
}
