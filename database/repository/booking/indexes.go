package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes backing booking lookups, the overlap
// query, and TTL cleanup of stale advisory locks.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "check_in", Value: 1}},
		},
		{
			// Backs the overlap query in FindOverlapping.
			Keys: bson.D{
				{Key: "property_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "check_in", Value: 1},
				{Key: "check_out", Value: 1},
			},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	lockIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := r.lockColl.Indexes().CreateOne(ctx, lockIndex); err != nil {
		return fmt.Errorf("failed to create booking lock TTL index: %w", err)
	}
	return nil
}
