package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "stayhaven/database/repository/booking"
	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
	"stayhaven/utils"
)

// Create validates and inserts a new confirmed booking. The availability
// pre-check gives a fast conflict answer for the conversational surface, but
// the storage layer's InsertIfAvailable is the authoritative guard: its
// rejection is surfaced as the same conflict error even when the pre-check
// passed.
func (s *DefaultBookingService) Create(req CreateBookingRequest) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	in, err := NormalizeDate(req.CheckIn, now.Year(), now)
	if err != nil {
		return nil, NewBookingError(CodeInvalidRange, fmt.Sprintf("invalid check-in date: %v", err))
	}
	out, err := NormalizeDate(req.CheckOut, now.Year(), now)
	if err != nil {
		return nil, NewBookingError(CodeInvalidRange, fmt.Sprintf("invalid check-out date: %v", err))
	}

	nights, err := Nights(in, out)
	if err != nil {
		return nil, err
	}

	property, err := s.PropertyRepo.GetByID(req.PropertyID)
	if err != nil {
		if err == propertyRepo.ErrNotFound {
			return nil, NewBookingError(CodeNotFound, fmt.Sprintf("property %s not found", req.PropertyID))
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	if req.GuestCount < 1 || req.GuestCount > property.MaxGuests {
		return nil, NewBookingError(CodeCapacityExceeded,
			fmt.Sprintf("guest count must be between 1 and %d for this property", property.MaxGuests))
	}

	today := now.Format(DateLayout)
	if in < today {
		return nil, NewBookingError(CodePastDate, "check-in date cannot be in the past")
	}

	conflicts, err := s.BookingRepo.FindOverlapping(req.PropertyID, in, out, models.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, NewConflictError("the property is already booked for part of the requested dates", conflicts)
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		CheckIn:    in,
		CheckOut:   out,
		GuestCount: req.GuestCount,
		TotalPrice: float64(nights) * property.PricePerNight,
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  now,
	}

	// Repositories run on their own bounded contexts, so a caller hanging up
	// mid-stream cannot abort a write already in flight.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.BookingRepo.InsertIfAvailable(ctx, booking); err != nil {
		if overlap, ok := err.(*bookingRepo.OverlapError); ok {
			logger.Warn("booking insert rejected by storage guard",
				zap.String("propertyID", req.PropertyID),
				zap.String("checkIn", in),
				zap.String("checkOut", out))
			return nil, NewConflictError("the property was booked concurrently for the requested dates", overlap.Conflicts)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	logger.Info("booking created",
		zap.String("bookingID", booking.ID),
		zap.String("propertyID", booking.PropertyID),
		zap.String("guestID", booking.GuestID),
		zap.Int("nights", nights),
		zap.Float64("totalPrice", booking.TotalPrice))

	return booking, nil
}

// Cancel flips a confirmed booking to cancelled on behalf of its guest.
// Cancellation never deletes the record.
func (s *DefaultBookingService) Cancel(bookingID, requesterID string, minNotice time.Duration) (*models.Booking, error) {
	logger := utils.GetLogger()
	now := s.now()

	booking, err := s.BookingRepo.GetByID(bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewBookingError(CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.GuestID != requesterID {
		return nil, NewBookingError(CodeForbidden, "only the guest who made the booking can cancel it")
	}

	switch booking.Status {
	case models.BookingStatusCancelled:
		return nil, NewBookingError(CodeAlreadyCancelled, "the booking is already cancelled")
	case models.BookingStatusCompleted:
		return nil, NewBookingError(CodeAlreadyCompleted, "the booking is already completed")
	}

	checkIn, err := ParseDate(booking.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("stored booking has invalid check-in: %w", err)
	}
	if !checkIn.After(now.Add(minNotice)) {
		msg := "the booking can no longer be cancelled: check-in has already started"
		if minNotice > 0 {
			msg = fmt.Sprintf("the booking can only be cancelled up to %d hours before check-in", int(minNotice.Hours()))
		}
		return nil, NewBookingError(CodeTooLate, msg)
	}

	cancelledAt := now
	if err := s.BookingRepo.SetStatus(bookingID, models.BookingStatusCancelled, &cancelledAt); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &cancelledAt

	logger.Info("booking cancelled",
		zap.String("bookingID", booking.ID),
		zap.String("guestID", requesterID))

	return booking, nil
}

// ListForGuest returns a guest's bookings filtered relative to "now".
func (s *DefaultBookingService) ListForGuest(guestID, filter string, limit int) ([]models.Booking, error) {
	bookings, err := s.BookingRepo.ListByGuest(guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	today := s.now().Format(DateLayout)
	var filtered []models.Booking
	for _, b := range bookings {
		switch filter {
		case FilterUpcoming:
			if b.Status == models.BookingStatusConfirmed && b.CheckIn >= today {
				filtered = append(filtered, b)
			}
		case FilterPast:
			if b.Status == models.BookingStatusCompleted ||
				(b.Status == models.BookingStatusConfirmed && b.CheckOut < today) {
				filtered = append(filtered, b)
			}
		case FilterCancelled:
			if b.Status == models.BookingStatusCancelled {
				filtered = append(filtered, b)
			}
		default:
			filtered = append(filtered, b)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
