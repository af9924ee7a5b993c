package booking

import (
	"fmt"

	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"

	"go.uber.org/zap"

	"stayhaven/utils"
)

// CheckAvailability decides whether the property is free for the requested
// half-open range. Only confirmed bookings block; cancelled and completed
// bookings never conflict. Pure read: safe to call repeatedly and concurrently.
func (s *DefaultBookingService) CheckAvailability(propertyID, checkIn, checkOut string) (*AvailabilityResult, error) {
	logger := utils.GetLogger()
	now := s.now()

	in, err := NormalizeDate(checkIn, now.Year(), now)
	if err != nil {
		return nil, NewBookingError(CodeInvalidRange, fmt.Sprintf("invalid check-in date: %v", err))
	}
	out, err := NormalizeDate(checkOut, now.Year(), now)
	if err != nil {
		return nil, NewBookingError(CodeInvalidRange, fmt.Sprintf("invalid check-out date: %v", err))
	}

	nights, err := Nights(in, out)
	if err != nil {
		return nil, err
	}

	if _, err := s.PropertyRepo.GetByID(propertyID); err != nil {
		if err == propertyRepo.ErrNotFound {
			return nil, NewBookingError(CodeNotFound, fmt.Sprintf("property %s not found", propertyID))
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}

	conflicts, err := s.BookingRepo.FindOverlapping(propertyID, in, out, models.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}

	if len(conflicts) > 0 {
		logger.Debug("availability check found conflicts",
			zap.String("propertyID", propertyID),
			zap.String("checkIn", in),
			zap.String("checkOut", out),
			zap.Int("conflicts", len(conflicts)))
	}

	return &AvailabilityResult{
		Available: len(conflicts) == 0,
		Nights:    nights,
		Conflicts: conflicts,
	}, nil
}
