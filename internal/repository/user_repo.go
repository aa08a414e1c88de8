package repository

import (
	"context"
	"fmt"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserRepo struct {
	documents
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{documents{collection: db.Collection(models.UsersCollection)}}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.Document, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

// Create inserts the user as sent. Emails are not checked for duplicates.
func (r *UserRepo) Create(ctx context.Context, user models.Document) (*models.InsertResult, error) {
	result, err := r.insert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return result, nil
}

// PromoteToAdmin sets role to admin on an existing user. Unknown ids match nothing.
func (r *UserRepo) PromoteToAdmin(ctx context.Context, id bson.ObjectID) (*models.UpdateResult, error) {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"role": models.RoleAdmin},
	})
	if err != nil {
		return nil, fmt.Errorf("promote user %s: %w", id.Hex(), err)
	}
	return models.NewUpdateResult(result), nil
}

// EnsureIndexes creates the email lookup index for the users collection.
// It is not unique: duplicate registrations are accepted.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	return err
}
