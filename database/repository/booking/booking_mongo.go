package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll     *mongo.Collection
	lockColl *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.DB()
	return &MongoBookingRepo{
		coll:     db.Collection("bookings"),
		lockColl: db.Collection("booking_locks"),
	}
}

func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var booking models.Booking
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListByGuest(guestID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for guest %s: %w", guestID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// FindOverlapping uses the half-open interval test: an existing booking
// conflicts when existing.check_in < checkOut AND existing.check_out > checkIn.
// Dates are canonical "YYYY-MM-DD" strings, so string range filters compare
// chronologically.
func (r *MongoBookingRepo) FindOverlapping(propertyID, checkIn, checkOut, status string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.findOverlapping(ctx, r.coll, propertyID, checkIn, checkOut, status)
}

func (r *MongoBookingRepo) findOverlapping(ctx context.Context, coll *mongo.Collection, propertyID, checkIn, checkOut, status string) ([]models.Booking, error) {
	filter := bson.M{
		"property_id": propertyID,
		"status":      status,
		"check_in":    bson.M{"$lt": checkOut},
		"check_out":   bson.M{"$gt": checkIn},
	}
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

// InsertIfAvailable is the storage-level guard against double booking. It
// serializes writers on the property via an advisory lock document, then
// re-checks for overlapping confirmed bookings and inserts inside a session
// transaction. The application-level pre-check is advisory only; this is the
// authoritative source of conflict rejections.
func (r *MongoBookingRepo) InsertIfAvailable(ctx context.Context, booking *models.Booking) error {
	release, err := r.acquirePropertyLock(ctx, booking.PropertyID)
	if err != nil {
		return err
	}
	defer release()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		conflicts, err := r.findOverlapping(sc, r.coll, booking.PropertyID, booking.CheckIn, booking.CheckOut, models.BookingStatusConfirmed)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &OverlapError{Conflicts: conflicts}
		}
		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if overlap, ok := err.(*OverlapError); ok {
			return overlap
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

func (r *MongoBookingRepo) SetStatus(id, status string, cancelledAt *time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"status": status}
	if cancelledAt != nil {
		update["cancelled_at"] = cancelledAt
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": update})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookingRepo) MarkCompletedBefore(date string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.BookingStatusConfirmed,
		"check_out": bson.M{"$lte": date},
	}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.BookingStatusCompleted}})
	if err != nil {
		return 0, fmt.Errorf("failed to complete past bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
