package repository

import (
	"context"
	"errors"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// documents holds the single-call operations shared by every collection.
type documents struct {
	collection *mongo.Collection
}

func (d documents) find(ctx context.Context, filter any) ([]models.Document, error) {
	cursor, err := d.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	docs := make([]models.Document, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// findOne returns nil, nil when nothing matches.
func (d documents) findOne(ctx context.Context, filter any) (models.Document, error) {
	var doc models.Document
	err := d.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

func (d documents) insert(ctx context.Context, doc models.Document) (*models.InsertResult, error) {
	result, err := d.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	return models.NewInsertResult(result), nil
}

func (d documents) deleteByID(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error) {
	result, err := d.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	return models.NewDeleteResult(result), nil
}
