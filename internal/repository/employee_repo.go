package repository

import (
	"context"
	"fmt"

	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EmployeeRepo reads the employees collection, served as testimonials.
type EmployeeRepo struct {
	documents
}

func NewEmployeeRepo(db *mongo.Database) *EmployeeRepo {
	return &EmployeeRepo{documents{collection: db.Collection(models.EmployeesCollection)}}
}

func (r *EmployeeRepo) FindAll(ctx context.Context) ([]models.Document, error) {
	docs, err := r.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	return docs, nil
}
