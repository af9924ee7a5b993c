package propertyRepo

import (
	"context"
	"fmt"
	"time"

	"stayhaven/database"
	"stayhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no property matches the given ID.
var ErrNotFound = fmt.Errorf("property not found")

// MongoPropertyRepo implements PropertyRepository using MongoDB.
type MongoPropertyRepo struct {
	coll *mongo.Collection
}

// NewMongoPropertyRepo creates a new instance of PropertyRepository using MongoDB.
func NewMongoPropertyRepo() *MongoPropertyRepo {
	coll := database.DB().Collection("properties")
	return &MongoPropertyRepo{coll: coll}
}

func (r *MongoPropertyRepo) GetByID(id string) (*models.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var property models.Property
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&property); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch property with id %s: %w", id, err)
	}
	return &property, nil
}

// Search returns properties matching the criteria, newest first.
// At most criteria.Limit results are returned (default 20).
func (r *MongoPropertyRepo) Search(criteria PropertySearchCriteria) ([]models.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if criteria.Location != "" {
		filter["location"] = bson.M{"$regex": criteria.Location, "$options": "i"}
	}
	if criteria.LocationType != "" {
		filter["location_type"] = criteria.LocationType
	}
	if criteria.Guests > 0 {
		filter["max_guests"] = bson.M{"$gte": criteria.Guests}
	}
	price := bson.M{}
	if criteria.MinPrice > 0 {
		price["$gte"] = criteria.MinPrice
	}
	if criteria.MaxPrice > 0 {
		price["$lte"] = criteria.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_night"] = price
	}

	limit := int64(criteria.Limit)
	if limit <= 0 || limit > 20 {
		limit = 20
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (r *MongoPropertyRepo) Create(property *models.Property) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, property)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *MongoPropertyRepo) GetByHost(hostID string) ([]models.Property, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{"host_id": hostID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties for host %s: %w", hostID, err)
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}
