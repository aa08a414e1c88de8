package repository

import (
	"context"
	"fmt"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type BikeRepo struct {
	documents
}

func NewBikeRepo(db *mongo.Database) *BikeRepo {
	return &BikeRepo{documents{collection: db.Collection(models.BikesCollection)}}
}

func (r *BikeRepo) FindAll(ctx context.Context) ([]models.Document, error) {
	docs, err := r.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find bikes: %w", err)
	}
	return docs, nil
}
