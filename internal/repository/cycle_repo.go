package repository

import (
	"context"
	"fmt"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CycleRepo struct {
	documents
}

func NewCycleRepo(db *mongo.Database) *CycleRepo {
	return &CycleRepo{documents{collection: db.Collection(models.CyclesCollection)}}
}

func (r *CycleRepo) FindAll(ctx context.Context) ([]models.Document, error) {
	docs, err := r.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find cycles: %w", err)
	}
	return docs, nil
}

func (r *CycleRepo) FindByID(ctx context.Context, id bson.ObjectID) (models.Document, error) {
	doc, err := r.findOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("find cycle %s: %w", id.Hex(), err)
	}
	return doc, nil
}

func (r *CycleRepo) Create(ctx context.Context, cycle models.Document) (*models.InsertResult, error) {
	result, err := r.insert(ctx, cycle)
	if err != nil {
		return nil, fmt.Errorf("insert cycle: %w", err)
	}
	return result, nil
}

// Upsert overwrites the fixed cycle field set, creating the document when the
// id does not exist yet.
func (r *CycleRepo) Upsert(ctx context.Context, id bson.ObjectID, update models.CycleUpdate) (*models.UpdateResult, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cycle %s: %w", id.Hex(), err)
	}
	return models.NewUpdateResult(result), nil
}

func (r *CycleRepo) Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error) {
	result, err := r.deleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete cycle %s: %w", id.Hex(), err)
	}
	return result, nil
}
