package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// CreateFarm inserts a farm.
func (r *MongoDBRepository) CreateFarm(ctx context.Context, farm models.Farm) error {
	if _, err := r.db.Collection(farmsCollection).InsertOne(ctx, farm); err != nil {
		return fmt.Errorf("failed to insert farm: %w", err)
	}
	return nil
}

// ListFarms returns the farms of userID, newest first.
func (r *MongoDBRepository) ListFarms(ctx context.Context, userID string) ([]models.Farm, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection(farmsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}

	farms := make([]models.Farm, 0)
	if err := cursor.All(ctx, &farms); err != nil {
		return nil, fmt.Errorf("decode farms: %w", err)
	}
	return farms, nil
}

// GetFarm loads a farm by ID.
func (r *MongoDBRepository) GetFarm(ctx context.Context, id string) (models.Farm, error) {
	var farm models.Farm
	if err := r.findOne(ctx, farmsCollection, bson.M{"_id": id}, &farm); err != nil {
		return models.Farm{}, fmt.Errorf("find farm %s: %w", id, err)
	}
	return farm, nil
}

// UpdateFarm replaces a stored farm.
func (r *MongoDBRepository) UpdateFarm(ctx context.Context, farm models.Farm) error {
	if err := r.replaceByID(ctx, farmsCollection, farm.ID, farm); err != nil {
		return fmt.Errorf("update farm %s: %w", farm.ID, err)
	}
	return nil
}

// DeleteFarm removes a farm.
func (r *MongoDBRepository) DeleteFarm(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, farmsCollection, id); err != nil {
		return fmt.Errorf("delete farm %s: %w", id, err)
	}
	return nil
}
