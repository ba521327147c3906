package models

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

// Sentinel errors shared by the store adapters and the ledger. Handlers map
// these onto HTTP statuses.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrEventNotActive   = errors.New("event is not active for bookings")
	ErrEventFull        = errors.New("event is fully booked")
	ErrDuplicateBooking = errors.New("participant is already registered for this event")
	ErrBookingNotActive = errors.New("booking is not confirmed")
)

// EventStore persists events. ReserveSeat and ReleaseSeat are the conditional
// primitives the ledger builds the capacity invariant on: ReserveSeat must
// atomically increment current_participants only while the event is active and
// below max_participants, and ReleaseSeat must never take the counter below
// zero.
type EventStore interface {
	InsertEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, fields map[string]interface{}) (*Event, error)
	ListEventsByStatus(ctx context.Context, status string) ([]*Event, error)
	ReserveSeat(ctx context.Context, eventID string) error
	ReleaseSeat(ctx context.Context, eventID string) error
}

// BookingStore persists bookings. InsertBooking must enforce uniqueness of
// (event_id, email) among non-cancelled bookings at the persistence boundary
// and surface violations as ErrDuplicateBooking. CancelBooking flips
// confirmed to cancelled as a conditional update so a repeat cancel cannot
// slip through.
type BookingStore interface {
	InsertBooking(ctx context.Context, booking *Booking) error
	GetBookingDetail(ctx context.Context, id string) (*BookingDetail, error)
	UpdateBooking(ctx context.Context, id string, fields map[string]interface{}) (*Booking, error)
	CancelBooking(ctx context.Context, id string) (*Booking, error)
	ListBookingDetailsByStatus(ctx context.Context, status string) ([]*BookingDetail, error)
	DeleteBookingsByEvent(ctx context.Context, eventID string) (int64, error)
}

// Store is the persistence contract the ledger is programmed against. The
// mongo and memory adapters are interchangeable behind it.
type Store interface {
	EventStore
	BookingStore
}
