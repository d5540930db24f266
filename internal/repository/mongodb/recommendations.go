package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// CreateRecommendation inserts a recommendation.
func (r *MongoDBRepository) CreateRecommendation(ctx context.Context, rec models.Recommendation) error {
	if _, err := r.db.Collection(recommendationsCollection).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// ListRecommendations returns the recommendations of userID, newest first.
// limit <= 0 returns all of them.
func (r *MongoDBRepository) ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.db.Collection(recommendationsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	recs := make([]models.Recommendation, 0)
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}

// GetRecommendation loads a recommendation by ID.
func (r *MongoDBRepository) GetRecommendation(ctx context.Context, id string) (models.Recommendation, error) {
	var rec models.Recommendation
	if err := r.findOne(ctx, recommendationsCollection, bson.M{"_id": id}, &rec); err != nil {
		return models.Recommendation{}, fmt.Errorf("find recommendation %s: %w", id, err)
	}
	return rec, nil
}

// UpdateRecommendation replaces a stored recommendation.
func (r *MongoDBRepository) UpdateRecommendation(ctx context.Context, rec models.Recommendation) error {
	if err := r.replaceByID(ctx, recommendationsCollection, rec.ID, rec); err != nil {
		return fmt.Errorf("update recommendation %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteRecommendation removes a recommendation.
func (r *MongoDBRepository) DeleteRecommendation(ctx context.Context, id string) error {
	if err := r.deleteByID(ctx, recommendationsCollection, id); err != nil {
		return fmt.Errorf("delete recommendation %s: %w", id, err)
	}
	return nil
}
