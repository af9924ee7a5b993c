package booking

import (
	"errors"
	"fmt"

	"stayhaven/models"
)

// Error codes for booking operations. Handlers map these to HTTP statuses and
// the assistant rephrases them in natural language.
const (
	CodeNotFound         = "not_found"
	CodeInvalidRange     = "invalid_range"
	CodePastDate         = "past_date"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeConflict         = "conflict"
	CodeForbidden        = "forbidden"
	CodeAlreadyCancelled = "already_cancelled"
	CodeAlreadyCompleted = "already_completed"
	CodeTooLate          = "too_late"
)

// BookingError is a typed domain error with a machine-readable code. Conflict
// errors carry the full set of conflicting bookings so callers can explain
// which dates are taken.
type BookingError struct {
	Code      string
	Message   string
	Conflicts []models.Booking
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}

func NewConflictError(msg string, conflicts []models.Booking) error {
	return &BookingError{Code: CodeConflict, Message: msg, Conflicts: conflicts}
}

// AsBookingError unwraps err into a *BookingError if possible.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
