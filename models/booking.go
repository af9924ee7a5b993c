package models

import "time"

// Booking statuses. A booking is never deleted: cancellation and completion
// are status flips so history is preserved.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking represents a confirmed reservation of a property for a guest.
// CheckIn and CheckOut are calendar dates in "YYYY-MM-DD" format forming the
// half-open interval [CheckIn, CheckOut); lexicographic comparison of the
// strings equals chronological comparison.
type Booking struct {
	ID          string     `bson:"id" json:"id"`
	PropertyID  string     `bson:"property_id" json:"property_id"`
	GuestID     string     `bson:"guest_id" json:"guest_id"`
	CheckIn     string     `bson:"check_in" json:"check_in"`
	CheckOut    string     `bson:"check_out" json:"check_out"`
	GuestCount  int        `bson:"guest_count" json:"guest_count"`
	TotalPrice  float64    `bson:"total_price" json:"total_price"` // nights x price_per_night, server-computed
	Status      string     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
}
