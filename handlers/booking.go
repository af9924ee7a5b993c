package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stayhaven/services/booking"
	"stayhaven/utils"
)

// cancelNotice is the cutoff for the booking-detail surface: guests cancel up
// to 24 hours before check-in here, while the assistant path only requires a
// strictly-future check-in.
const cancelNotice = 24 * time.Hour

// BookingHandler exposes the direct (non-assistant) booking endpoints.
type BookingHandler struct {
	svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input struct {
		PropertyID string `json:"property_id" binding:"required"`
		CheckIn    string `json:"check_in" binding:"required"`
		CheckOut   string `json:"check_out" binding:"required"`
		GuestCount int    `json:"guest_count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	created, err := h.svc.Create(booking.CreateBookingRequest{
		PropertyID: input.PropertyID,
		GuestID:    c.GetString("userID"),
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		GuestCount: input.GuestCount,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CancelBooking handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	cancelled, err := h.svc.Cancel(c.Param("id"), c.GetString("userID"), cancelNotice)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := c.DefaultQuery("filter", booking.FilterAll)
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	bookings, err := h.svc.ListForGuest(c.GetString("userID"), filter, limit)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// CheckAvailability handles GET /api/bookings/availability.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	propertyID := c.Query("property_id")
	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if propertyID == "" || checkIn == "" || checkOut == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "property_id, check_in and check_out are required")
		return
	}

	result, err := h.svc.CheckAvailability(propertyID, checkIn, checkOut)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondBookingError maps domain error codes to HTTP statuses. Conflict
// responses include the conflicting bookings so the caller can show which
// dates are taken.
func respondBookingError(c *gin.Context, err error) {
	be, ok := booking.AsBookingError(err)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}

	status := http.StatusBadRequest
	switch be.Code {
	case booking.CodeNotFound:
		status = http.StatusNotFound
	case booking.CodeForbidden:
		status = http.StatusForbidden
	case booking.CodeConflict, booking.CodeAlreadyCancelled, booking.CodeAlreadyCompleted, booking.CodeTooLate:
		status = http.StatusConflict
	}

	body := gin.H{"error": be.Code, "message": be.Message}
	if len(be.Conflicts) > 0 {
		body["conflicts"] = be.Conflicts
	}
	c.JSON(status, body)
}
