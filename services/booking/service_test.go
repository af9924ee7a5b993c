package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "stayhaven/database/repository/booking"
	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
)

// In-memory fakes. fakeBookingRepo serializes InsertIfAvailable with a mutex
// the same way the Mongo implementation serializes via the per-property lock.
type fakePropertyRepo struct {
	properties map[string]models.Property
}

func (f *fakePropertyRepo) GetByID(id string) (*models.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, propertyRepo.ErrNotFound
	}
	return &p, nil
}

func (f *fakePropertyRepo) Search(criteria propertyRepo.PropertySearchCriteria) ([]models.Property, error) {
	var out []models.Property
	for _, p := range f.properties {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePropertyRepo) Create(p *models.Property) error {
	f.properties[p.ID] = *p
	return nil
}

func (f *fakePropertyRepo) GetByHost(hostID string) ([]models.Property, error) {
	var out []models.Property
	for _, p := range f.properties {
		if p.HostID == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) ListByGuest(guestID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindOverlapping(propertyID, checkIn, checkOut, status string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findOverlappingLocked(propertyID, checkIn, checkOut, status), nil
}

func (f *fakeBookingRepo) findOverlappingLocked(propertyID, checkIn, checkOut, status string) []models.Booking {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PropertyID == propertyID && b.Status == status && Overlaps(checkIn, checkOut, b.CheckIn, b.CheckOut) {
			out = append(out, b)
		}
	}
	return out
}

func (f *fakeBookingRepo) InsertIfAvailable(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	conflicts := f.findOverlappingLocked(booking.PropertyID, booking.CheckIn, booking.CheckOut, models.BookingStatusConfirmed)
	if len(conflicts) > 0 {
		return &bookingRepo.OverlapError{Conflicts: conflicts}
	}
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeBookingRepo) SetStatus(id, status string, cancelledAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings[i].Status = status
			f.bookings[i].CancelledAt = cancelledAt
			return nil
		}
	}
	return bookingRepo.ErrNotFound
}

func (f *fakeBookingRepo) MarkCompletedBefore(date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.bookings {
		if f.bookings[i].Status == models.BookingStatusConfirmed && f.bookings[i].CheckOut <= date {
			f.bookings[i].Status = models.BookingStatusCompleted
			n++
		}
	}
	return n, nil
}

func newTestService() (*DefaultBookingService, *fakePropertyRepo, *fakeBookingRepo) {
	props := &fakePropertyRepo{properties: map[string]models.Property{
		"prop-1": {
			ID:            "prop-1",
			HostID:        "host-1",
			Title:         "Beach House",
			Location:      "Malibu",
			LocationType:  models.LocationTypeBeach,
			PricePerNight: 200,
			MaxGuests:     4,
		},
	}}
	books := &fakeBookingRepo{}
	svc := &DefaultBookingService{
		PropertyRepo: props,
		BookingRepo:  books,
		Now: func() time.Time {
			return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
		},
	}
	return svc, props, books
}

func TestCreateBooking(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1",
		GuestID:    "guest-1",
		CheckIn:    "2025-07-01",
		CheckOut:   "2025-07-08",
		GuestCount: 2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, 7*200.0, b.TotalPrice)
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateBookingRequest
		wantCode string
	}{
		{
			name:     "unknown property",
			req:      CreateBookingRequest{PropertyID: "nope", GuestID: "g", CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 2},
			wantCode: CodeNotFound,
		},
		{
			name:     "checkout equals checkin",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-07-08", CheckOut: "2025-07-08", GuestCount: 2},
			wantCode: CodeInvalidRange,
		},
		{
			name:     "checkout before checkin",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-07-08", CheckOut: "2025-07-01", GuestCount: 2},
			wantCode: CodeInvalidRange,
		},
		{
			name:     "past checkin",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-05-01", CheckOut: "2025-05-08", GuestCount: 2},
			wantCode: CodePastDate,
		},
		{
			name:     "too many guests",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 5},
			wantCode: CodeCapacityExceeded,
		},
		{
			name:     "zero guests",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 0},
			wantCode: CodeCapacityExceeded,
		},
		{
			name:     "unparseable date",
			req:      CreateBookingRequest{PropertyID: "prop-1", GuestID: "g", CheckIn: "whenever", CheckOut: "2025-07-08", GuestCount: 2},
			wantCode: CodeInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			_, err := svc.Create(tt.req)
			require.Error(t, err)
			be, ok := AsBookingError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, be.Code)
		})
	}
}

func TestCreateBookingConflict(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 2,
	})
	require.NoError(t, err)

	// Back-to-back is allowed: checkout day equals the next checkin day.
	avail, err := svc.CheckAvailability("prop-1", "2025-07-08", "2025-07-12")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 4, avail.Nights)

	_, err = svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-2",
		CheckIn: "2025-07-08", CheckOut: "2025-07-12", GuestCount: 2,
	})
	require.NoError(t, err)

	// One shared night blocks.
	avail, err = svc.CheckAvailability("prop-1", "2025-07-07", "2025-07-12")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	require.NotEmpty(t, avail.Conflicts)

	_, err = svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-3",
		CheckIn: "2025-07-07", CheckOut: "2025-07-12", GuestCount: 2,
	})
	require.Error(t, err)
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, be.Code)
	assert.NotEmpty(t, be.Conflicts)
}

func TestCheckAvailabilityIgnoresCancelled(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 2,
	})
	require.NoError(t, err)

	avail, err := svc.CheckAvailability("prop-1", "2025-07-03", "2025-07-05")
	require.NoError(t, err)
	assert.False(t, avail.Available)

	_, err = svc.Cancel(b.ID, "guest-1", 0)
	require.NoError(t, err)

	avail, err = svc.CheckAvailability("prop-1", "2025-07-03", "2025-07-05")
	require.NoError(t, err)
	assert.True(t, avail.Available)
}

func TestCheckAvailabilityIsReadOnly(t *testing.T) {
	svc, _, repo := newTestService()

	for i := 0; i < 3; i++ {
		avail, err := svc.CheckAvailability("prop-1", "2025-07-01", "2025-07-08")
		require.NoError(t, err)
		assert.True(t, avail.Available)
		assert.Equal(t, 7, avail.Nights)
	}
	assert.Empty(t, repo.bookings)
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	svc, _, repo := newTestService()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(CreateBookingRequest{
				PropertyID: "prop-1",
				GuestID:    "guest-" + string(rune('a'+i)),
				CheckIn:    "2025-07-01",
				CheckOut:   "2025-07-08",
				GuestCount: 2,
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			be, ok := AsBookingError(err)
			require.True(t, ok)
			assert.Equal(t, CodeConflict, be.Code)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, repo.bookings, 1)
}

func TestCancel(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 2,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(b.ID, "guest-1", 0)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestCancelErrors(t *testing.T) {
	svc, _, repo := newTestService()

	b, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-07-01", CheckOut: "2025-07-08", GuestCount: 2,
	})
	require.NoError(t, err)

	_, err = svc.Cancel("missing", "guest-1", 0)
	be, ok := AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, be.Code)

	_, err = svc.Cancel(b.ID, "someone-else", 0)
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeForbidden, be.Code)

	// Less than 24h of notice with a 24h cutoff.
	soon, err := svc.Create(CreateBookingRequest{
		PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-06-02", CheckOut: "2025-06-05", GuestCount: 2,
	})
	require.NoError(t, err)
	_, err = svc.Cancel(soon.ID, "guest-1", 24*time.Hour)
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTooLate, be.Code)

	// The zero cutoff still allows it while check-in is in the future.
	_, err = svc.Cancel(soon.ID, "guest-1", 0)
	require.NoError(t, err)

	_, err = svc.Cancel(soon.ID, "guest-1", 0)
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyCancelled, be.Code)

	// A stay that already started cannot be cancelled on any surface.
	repo.bookings = append(repo.bookings, models.Booking{
		ID: "started", PropertyID: "prop-1", GuestID: "guest-1",
		CheckIn: "2025-05-28", CheckOut: "2025-06-03", Status: models.BookingStatusConfirmed,
	})
	_, err = svc.Cancel("started", "guest-1", 0)
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeTooLate, be.Code)

	require.NoError(t, repo.SetStatus(b.ID, models.BookingStatusCompleted, nil))
	_, err = svc.Cancel(b.ID, "guest-1", 0)
	be, ok = AsBookingError(err)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyCompleted, be.Code)
}

func TestListForGuest(t *testing.T) {
	svc, _, repo := newTestService()

	seed := []models.Booking{
		{ID: "b1", PropertyID: "prop-1", GuestID: "guest-1", CheckIn: "2025-07-01", CheckOut: "2025-07-08", Status: models.BookingStatusConfirmed},
		{ID: "b2", PropertyID: "prop-1", GuestID: "guest-1", CheckIn: "2025-04-01", CheckOut: "2025-04-05", Status: models.BookingStatusCompleted},
		{ID: "b3", PropertyID: "prop-1", GuestID: "guest-1", CheckIn: "2025-08-01", CheckOut: "2025-08-05", Status: models.BookingStatusCancelled},
		{ID: "b4", PropertyID: "prop-1", GuestID: "guest-2", CheckIn: "2025-07-10", CheckOut: "2025-07-12", Status: models.BookingStatusConfirmed},
	}
	repo.bookings = append(repo.bookings, seed...)

	all, err := svc.ListForGuest("guest-1", FilterAll, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	upcoming, err := svc.ListForGuest("guest-1", FilterUpcoming, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "b1", upcoming[0].ID)

	past, err := svc.ListForGuest("guest-1", FilterPast, 0)
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, "b2", past[0].ID)

	cancelled, err := svc.ListForGuest("guest-1", FilterCancelled, 0)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "b3", cancelled[0].ID)

	limited, err := svc.ListForGuest("guest-1", FilterAll, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMarkCompletedSweep(t *testing.T) {
	_, _, repo := newTestService()

	repo.bookings = []models.Booking{
		{ID: "b1", PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-05-01", CheckOut: "2025-05-08", Status: models.BookingStatusConfirmed},
		{ID: "b2", PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-07-01", CheckOut: "2025-07-08", Status: models.BookingStatusConfirmed},
		{ID: "b3", PropertyID: "prop-1", GuestID: "g", CheckIn: "2025-05-01", CheckOut: "2025-05-03", Status: models.BookingStatusCancelled},
	}

	n, err := repo.MarkCompletedBefore("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)
	b, err = repo.GetByID("b2")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
}
