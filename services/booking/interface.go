package booking

import (
	"time"

	bookingRepo "stayhaven/database/repository/booking"
	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
)

// List filters for a guest's bookings, evaluated relative to "now".
const (
	FilterAll       = "all"
	FilterUpcoming  = "upcoming"
	FilterPast      = "past"
	FilterCancelled = "cancelled"
)

// CreateBookingRequest carries the caller-supplied fields for a new booking.
// The total price is never part of the request; it is derived server-side.
type CreateBookingRequest struct {
	PropertyID string
	GuestID    string
	CheckIn    string
	CheckOut   string
	GuestCount int
}

// AvailabilityResult is the outcome of an availability check. Conflicts holds
// every confirmed booking overlapping the requested range so callers can
// explain which dates are taken.
type AvailabilityResult struct {
	Available bool             `json:"available"`
	Nights    int              `json:"nights"`
	Conflicts []models.Booking `json:"conflicts,omitempty"`
}

// BookingService defines the operations of the booking engine.
type BookingService interface {
	CheckAvailability(propertyID, checkIn, checkOut string) (*AvailabilityResult, error)
	Create(req CreateBookingRequest) (*models.Booking, error)
	// Cancel cancels a confirmed booking on behalf of its guest. minNotice is
	// the cutoff rule of the calling surface: zero means cancellable while
	// check-in is strictly in the future, 24h means at least a day ahead.
	Cancel(bookingID, requesterID string, minNotice time.Duration) (*models.Booking, error)
	ListForGuest(guestID, filter string, limit int) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	PropertyRepo propertyRepo.PropertyRepository
	BookingRepo  bookingRepo.BookingRepository
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
