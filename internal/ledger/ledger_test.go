package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/campushub/eventreg/internal/ledger"
	"github.com/campushub/eventreg/internal/models"
	"github.com/campushub/eventreg/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(memstore.New(), false)
}

func eventRequest() models.CreateEventRequest {
	return models.CreateEventRequest{
		Name:            "Intro to Distributed Systems",
		Description:     "An evening talk on consensus protocols",
		Date:            "2026-09-12",
		Time:            "18:30",
		Venue:           "Main Auditorium",
		Category:        "Technical",
		MaxParticipants: 50,
	}
}

func bookingRequest(eventID, email string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		EventID:         eventID,
		ParticipantName: "Asha Rao",
		Email:           email,
		Phone:           "9876543210",
	}
}

func TestCreateEvent(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 0, event.CurrentParticipants)
	assert.Equal(t, 50, event.MaxParticipants)
	assert.Equal(t, models.EventStatusActive, event.Status)
}

func TestCreateEventValidation(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.CreateEventRequest)
	}{
		{"missing name", func(r *models.CreateEventRequest) { r.Name = "" }},
		{"missing venue", func(r *models.CreateEventRequest) { r.Venue = "  " }},
		{"unknown category", func(r *models.CreateEventRequest) { r.Category = "Party" }},
		{"zero capacity", func(r *models.CreateEventRequest) { r.MaxParticipants = 0 }},
		{"negative capacity", func(r *models.CreateEventRequest) { r.MaxParticipants = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := eventRequest()
			tt.mutate(&req)
			_, err := l.CreateEvent(ctx, req)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestUpdateEventPartialPatch(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	venue := "Lecture Hall 3"
	updated, err := l.UpdateEvent(ctx, event.ID, models.UpdateEventRequest{Venue: &venue})
	require.NoError(t, err)

	assert.Equal(t, "Lecture Hall 3", updated.Venue)
	assert.Equal(t, event.Name, updated.Name)
	assert.Equal(t, event.MaxParticipants, updated.MaxParticipants)
}

func TestUpdateEventUnknownID(t *testing.T) {
	l := newLedger(t)
	name := "New name"
	_, err := l.UpdateEvent(context.Background(), "no-such-id", models.UpdateEventRequest{Name: &name})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestUpdateEventEmptyPatch(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	_, err = l.UpdateEvent(ctx, event.ID, models.UpdateEventRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCreateBookingDefaultsAndNormalization(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	req := bookingRequest(event.ID, "  Asha.Rao@Example.COM ")
	booking, err := l.CreateBooking(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "asha.rao@example.com", booking.Email)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.NotSpecified, booking.College)
	assert.Equal(t, models.NotSpecified, booking.Department)
	assert.Equal(t, models.NotSpecified, booking.Year)

	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.CurrentParticipants)
}

func TestCreateBookingValidationFirst(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	// Missing participant fields fail before the unknown event id is looked at.
	_, err := l.CreateBooking(ctx, models.CreateBookingRequest{EventID: "no-such-id"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = l.CreateBooking(ctx, bookingRequest("no-such-id", "a@b.com"))
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestCreateBookingDuplicate(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "dup@example.com"))
	require.NoError(t, err)

	// Same email again, in different casing.
	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "DUP@example.com"))
	assert.ErrorIs(t, err, models.ErrDuplicateBooking)

	// The failed attempt must not leak a reserved seat.
	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.CurrentParticipants)
}

func TestCreateBookingAfterCancellationAllowed(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "back@example.com"))
	require.NoError(t, err)

	_, err = l.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)

	// A cancelled booking no longer blocks re-registration.
	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "back@example.com"))
	assert.NoError(t, err)
}

func TestCreateBookingFullEvent(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	req := eventRequest()
	req.MaxParticipants = 2
	event, err := l.CreateEvent(ctx, req)
	require.NoError(t, err)

	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "one@example.com"))
	require.NoError(t, err)
	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "two@example.com"))
	require.NoError(t, err)

	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "three@example.com"))
	assert.ErrorIs(t, err, models.ErrEventFull)

	// State unchanged by the rejected attempt.
	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed.CurrentParticipants)
}

func TestCreateBookingCancelledEvent(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	_, err = l.CancelEvent(ctx, event.ID)
	require.NoError(t, err)

	_, err = l.CreateBooking(ctx, bookingRequest(event.ID, "late@example.com"))
	assert.ErrorIs(t, err, models.ErrEventNotActive)
}

func TestConcurrentBookingsLastSeat(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	req := eventRequest()
	req.MaxParticipants = 1
	event, err := l.CreateEvent(ctx, req)
	require.NoError(t, err)

	emails := []string{"first@example.com", "second@example.com"}
	results := make([]error, len(emails))

	var wg sync.WaitGroup
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, results[i] = l.CreateBooking(ctx, bookingRequest(event.ID, email))
		}(i, email)
	}
	wg.Wait()

	var successes, full int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, models.ErrEventFull):
			full++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, full)

	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.CurrentParticipants)
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	req := eventRequest()
	req.MaxParticipants = 3
	event, err := l.CreateEvent(ctx, req)
	require.NoError(t, err)

	const attempts = 20
	results := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := string(rune('a'+i)) + "@example.com"
			_, results[i] = l.CreateBooking(ctx, bookingRequest(event.ID, email))
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range results {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 3, successes)

	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.CurrentParticipants)
	assert.LessOrEqual(t, refreshed.CurrentParticipants, refreshed.MaxParticipants)
}

func TestCancelBooking(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "gone@example.com"))
	require.NoError(t, err)

	cancelled, err := l.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.CurrentParticipants)
}

func TestCancelBookingTwice(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "twice@example.com"))
	require.NoError(t, err)

	_, err = l.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)

	// The second cancel fails and never decrements the counter again.
	_, err = l.CancelBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, models.ErrBookingNotActive)

	refreshed, err := l.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, refreshed.CurrentParticipants)
}

func TestCancelBookingUnknownID(t *testing.T) {
	l := newLedger(t)
	_, err := l.CancelBooking(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestCancelEventKeepsBookings(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "stay@example.com"))
	require.NoError(t, err)

	cancelled, err := l.CancelEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, cancelled.Status)

	// Existing bookings survive event cancellation.
	detail, err := l.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, detail.Status)

	// Repeat cancel is a no-op on a terminal state.
	again, err := l.CancelEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, again.Status)
}

func TestCancelEventCascadeMode(t *testing.T) {
	l := ledger.New(memstore.New(), true)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "swept@example.com"))
	require.NoError(t, err)

	_, err = l.CancelEvent(ctx, event.ID)
	require.NoError(t, err)

	_, err = l.GetBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, models.ErrBookingNotFound)
}

func TestListActiveEvents(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	active, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	cancelled, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)
	_, err = l.CancelEvent(ctx, cancelled.ID)
	require.NoError(t, err)

	events, err := l.ListActiveEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, active.ID, events[0].ID)
}

func TestListConfirmedBookingsProjection(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	confirmed, err := l.CreateBooking(ctx, bookingRequest(event.ID, "kept@example.com"))
	require.NoError(t, err)

	dropped, err := l.CreateBooking(ctx, bookingRequest(event.ID, "dropped@example.com"))
	require.NoError(t, err)
	_, err = l.CancelBooking(ctx, dropped.ID)
	require.NoError(t, err)

	details, err := l.ListConfirmedBookings(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)

	assert.Equal(t, confirmed.ID, details[0].ID)
	assert.Equal(t, event.Name, details[0].EventName)
	assert.Equal(t, event.Date, details[0].EventDate)
	assert.Equal(t, event.Time, details[0].EventTime)
	assert.Equal(t, event.Venue, details[0].EventVenue)
}

func TestUpdateBookingContactFields(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	event, err := l.CreateEvent(ctx, eventRequest())
	require.NoError(t, err)

	booking, err := l.CreateBooking(ctx, bookingRequest(event.ID, "contact@example.com"))
	require.NoError(t, err)

	phone := "9000000001"
	college := "St. Joseph's"
	updated, err := l.UpdateBooking(ctx, booking.ID, models.UpdateBookingRequest{
		Phone:   &phone,
		College: &college,
	})
	require.NoError(t, err)

	assert.Equal(t, "9000000001", updated.Phone)
	assert.Equal(t, "St. Joseph's", updated.College)
	assert.Equal(t, booking.Email, updated.Email)
	assert.Equal(t, booking.ParticipantName, updated.ParticipantName)
}
