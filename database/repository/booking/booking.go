package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"stayhaven/models"
)

// ErrNotFound is returned when no booking matches the given ID.
var ErrNotFound = fmt.Errorf("booking not found")

// OverlapError is returned by InsertIfAvailable when the insert is rejected
// because confirmed bookings already cover part of the requested range. It is
// the authoritative conflict signal; callers must treat it as such even when
// their own pre-check passed.
type OverlapError struct {
	Conflicts []models.Booking
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("booking overlaps %d confirmed booking(s)", len(e.Conflicts))
}

// BookingRepository defines the storage operations for bookings.
type BookingRepository interface {
	GetByID(id string) (*models.Booking, error)
	ListByGuest(guestID string) ([]models.Booking, error)
	// FindOverlapping returns all bookings for the property with the given
	// status whose [check_in, check_out) interval overlaps [checkIn, checkOut).
	FindOverlapping(propertyID, checkIn, checkOut, status string) ([]models.Booking, error)
	// InsertIfAvailable atomically re-checks for overlapping confirmed
	// bookings and inserts the booking only when none exist. Returns an
	// *OverlapError on rejection.
	InsertIfAvailable(ctx context.Context, booking *models.Booking) error
	// SetStatus transitions a booking to the given status. cancelledAt is
	// recorded when transitioning to cancelled.
	SetStatus(id, status string, cancelledAt *time.Time) error
	// MarkCompletedBefore flips confirmed bookings whose check_out is on or
	// before the given date to completed, returning the number updated.
	MarkCompletedBefore(date string) (int64, error)
}
