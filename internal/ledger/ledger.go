// Package ledger owns the event and booking entities. It enforces the
// capacity invariant and the duplicate-registration rule on top of the
// conditional store primitives; both persistence adapters sit behind the same
// contract, so there is exactly one copy of the business logic.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/eventreg/internal/models"
	"github.com/google/uuid"
)

type Ledger struct {
	store models.Store
	// cascadeOnCancel deletes an event's bookings when the event is
	// cancelled, instead of leaving them intact. Off by default.
	cascadeOnCancel bool
}

func New(store models.Store, cascadeOnCancel bool) *Ledger {
	return &Ledger{store: store, cascadeOnCancel: cascadeOnCancel}
}

func (l *Ledger) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Venue = strings.TrimSpace(req.Venue)
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	now := time.Now()
	event := &models.Event{
		ID:                  uuid.New().String(),
		Name:                req.Name,
		Description:         req.Description,
		Date:                req.Date,
		Time:                req.Time,
		Venue:               req.Venue,
		Category:            req.Category,
		MaxParticipants:     req.MaxParticipants,
		CurrentParticipants: 0,
		Status:              models.EventStatusActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := l.store.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (l *Ledger) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", models.ErrInvalidInput)
	}
	return l.store.GetEvent(ctx, id)
}

// UpdateEvent overwrites only the supplied fields. Capacity counters and
// status never change through this path.
func (l *Ledger) UpdateEvent(ctx context.Context, id string, req models.UpdateEventRequest) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", models.ErrInvalidInput)
	}
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.Time != nil {
		fields["time"] = *req.Time
	}
	if req.Venue != nil {
		fields["venue"] = strings.TrimSpace(*req.Venue)
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.MaxParticipants != nil {
		fields["max_participants"] = *req.MaxParticipants
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}
	return l.store.UpdateEvent(ctx, id, fields)
}

// CancelEvent flips the event to cancelled; the record is never removed.
// Existing bookings stay untouched unless cascade mode is on. Cancelling an
// already-cancelled event returns it unchanged.
func (l *Ledger) CancelEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: event id is required", models.ErrInvalidInput)
	}
	event, err := l.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	// cancelled and completed are terminal; only an active event transitions.
	if event.Status == models.EventStatusActive {
		event, err = l.store.UpdateEvent(ctx, id, map[string]interface{}{
			"status": models.EventStatusCancelled,
		})
		if err != nil {
			return nil, fmt.Errorf("cancel event: %w", err)
		}
	}
	if l.cascadeOnCancel {
		if _, err := l.store.DeleteBookingsByEvent(ctx, id); err != nil {
			return nil, fmt.Errorf("cascade delete bookings: %w", err)
		}
	}
	return event, nil
}

func (l *Ledger) ListActiveEvents(ctx context.Context) ([]*models.Event, error) {
	return l.store.ListEventsByStatus(ctx, models.EventStatusActive)
}

// CreateBooking registers a participant. The seat is reserved first through
// the store's conditional update, then the booking is inserted under the
// uniqueness constraint; a duplicate releases the seat again. Failure order
// matches the reservation rules: missing input, unknown event, inactive
// event, full event, duplicate registration.
func (l *Ledger) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	req.ParticipantName = strings.TrimSpace(req.ParticipantName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := models.Validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	if err := l.store.ReserveSeat(ctx, req.EventID); err != nil {
		return nil, err
	}

	now := time.Now()
	booking := &models.Booking{
		ID:              uuid.New().String(),
		EventID:         req.EventID,
		ParticipantName: req.ParticipantName,
		Email:           req.Email,
		Phone:           req.Phone,
		College:         defaultIfEmpty(req.College),
		Department:      defaultIfEmpty(req.Department),
		Year:            defaultIfEmpty(req.Year),
		Status:          models.BookingStatusConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := l.store.InsertBooking(ctx, booking); err != nil {
		// Give the reserved seat back before reporting the failure.
		if releaseErr := l.store.ReleaseSeat(ctx, req.EventID); releaseErr != nil {
			return nil, fmt.Errorf("release seat after failed insert: %v (insert: %w)", releaseErr, err)
		}
		return nil, err
	}
	return booking, nil
}

func (l *Ledger) GetBooking(ctx context.Context, id string) (*models.BookingDetail, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", models.ErrInvalidInput)
	}
	return l.store.GetBookingDetail(ctx, id)
}

// UpdateBooking patches contact fields only; email and event reference are
// immutable.
func (l *Ledger) UpdateBooking(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", models.ErrInvalidInput)
	}

	fields := map[string]interface{}{}
	if req.ParticipantName != nil {
		fields["participant_name"] = strings.TrimSpace(*req.ParticipantName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.College != nil {
		fields["college"] = defaultIfEmpty(*req.College)
	}
	if req.Department != nil {
		fields["department"] = defaultIfEmpty(*req.Department)
	}
	if req.Year != nil {
		fields["year"] = defaultIfEmpty(*req.Year)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrInvalidInput)
	}
	return l.store.UpdateBooking(ctx, id, fields)
}

// CancelBooking flips the booking to cancelled and gives the seat back. The
// status flip is conditional in the store, so cancelling twice fails instead
// of decrementing the event counter a second time.
func (l *Ledger) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: booking id is required", models.ErrInvalidInput)
	}
	booking, err := l.store.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.store.ReleaseSeat(ctx, booking.EventID); err != nil {
		// The booking is already cancelled; in cascade mode the event may be
		// gone, which leaves nothing to decrement.
		if !errors.Is(err, models.ErrEventNotFound) {
			return nil, fmt.Errorf("release seat: %w", err)
		}
	}
	return booking, nil
}

func (l *Ledger) ListConfirmedBookings(ctx context.Context) ([]*models.BookingDetail, error) {
	return l.store.ListBookingDetailsByStatus(ctx, models.BookingStatusConfirmed)
}

func defaultIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return models.NotSpecified
	}
	return strings.TrimSpace(value)
}
