package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	lockTTL           = 10 * time.Second
	lockRetryInterval = 50 * time.Millisecond
	lockMaxWait       = 3 * time.Second
)

// propertyLock is an advisory lock document serializing booking writers for a
// single property. The unique _id makes a second concurrent acquisition fail
// with a duplicate key error; the expires_at TTL index reclaims locks left
// behind by a crashed writer.
type propertyLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// acquirePropertyLock takes the advisory lock for the property, retrying
// briefly while a concurrent writer holds it. The returned release function
// must be called once the write completes.
func (r *MongoBookingRepo) acquirePropertyLock(ctx context.Context, propertyID string) (func(), error) {
	deadline := time.Now().Add(lockMaxWait)

	for {
		now := time.Now()
		lock := propertyLock{
			ID:        propertyID,
			ExpiresAt: now.Add(lockTTL),
			CreatedAt: now,
		}
		_, err := r.lockColl.InsertOne(ctx, lock)
		if err == nil {
			return func() {
				relCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_, _ = r.lockColl.DeleteOne(relCtx, bson.M{"_id": propertyID})
			}, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to acquire booking lock for property %s: %w", propertyID, err)
		}

		// Another writer holds the lock; clear it if expired, then retry.
		_, _ = r.lockColl.DeleteOne(ctx, bson.M{
			"_id":        propertyID,
			"expires_at": bson.M{"$lt": now},
		})

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for booking lock on property %s", propertyID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
