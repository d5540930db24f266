package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/agricure/internal/domain/models"
)

// SaveSnapshot appends a scored reading to the history collection.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.HealthSnapshot) error {
	if _, err := r.db.Collection(snapshotsCollection).InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert soil snapshot: %w", err)
	}
	return nil
}

// RecentSnapshots returns up to limit snapshots, newest first.
func (r *MongoDBRepository) RecentSnapshots(ctx context.Context, limit int) ([]models.HealthSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "captured_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.db.Collection(snapshotsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list soil snapshots: %w", err)
	}

	snapshots := make([]models.HealthSnapshot, 0)
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("decode soil snapshots: %w", err)
	}
	return snapshots, nil
}
