package repository

import (
	"context"
	"fmt"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// AddedItemRepo stores cart entries keyed by their owner's email.
type AddedItemRepo struct {
	documents
}

func NewAddedItemRepo(db *mongo.Database) *AddedItemRepo {
	return &AddedItemRepo{documents{collection: db.Collection(models.AddedItemsCollection)}}
}

// FindByEmail returns the items owned by email. A nil email matches items
// whose email is null or missing.
func (r *AddedItemRepo) FindByEmail(ctx context.Context, email *string) ([]models.Document, error) {
	var owner any
	if email != nil {
		owner = *email
	}
	docs, err := r.find(ctx, bson.M{"email": owner})
	if err != nil {
		return nil, fmt.Errorf("find added items: %w", err)
	}
	return docs, nil
}

func (r *AddedItemRepo) Create(ctx context.Context, item models.Document) (*models.InsertResult, error) {
	result, err := r.insert(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("insert added item: %w", err)
	}
	return result, nil
}

func (r *AddedItemRepo) Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error) {
	result, err := r.deleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete added item %s: %w", id.Hex(), err)
	}
	return result, nil
}

// EnsureIndexes creates the owner lookup index for the addedItems collection
func (r *AddedItemRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	return err
}
