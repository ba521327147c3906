// Package memstore implements the persistence contract on process memory.
// Every mutation runs under one store mutex, which is what makes the
// conditional seat reservation and the duplicate scan safe under concurrent
// requests. Intended for development and tests; state dies with the process.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campushub/eventreg/internal/models"
)

type MemStore struct {
	mu       sync.Mutex
	events   map[string]*models.Event
	bookings map[string]*models.Booking
}

func New() *MemStore {
	return &MemStore{
		events:   make(map[string]*models.Event),
		bookings: make(map[string]*models.Booking),
	}
}

func (ms *MemStore) InsertEvent(ctx context.Context, event *models.Event) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	copied := *event
	ms.events[event.ID] = &copied
	return nil
}

func (ms *MemStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	event, ok := ms.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (ms *MemStore) UpdateEvent(ctx context.Context, id string, fields map[string]interface{}) (*models.Event, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	event, ok := ms.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			event.Name = value.(string)
		case "description":
			event.Description = value.(string)
		case "date":
			event.Date = value.(string)
		case "time":
			event.Time = value.(string)
		case "venue":
			event.Venue = value.(string)
		case "category":
			event.Category = value.(string)
		case "max_participants":
			event.MaxParticipants = value.(int)
		case "status":
			event.Status = value.(string)
		default:
			return nil, fmt.Errorf("unknown event field %q", key)
		}
	}
	event.UpdatedAt = time.Now()
	copied := *event
	return &copied, nil
}

func (ms *MemStore) ListEventsByStatus(ctx context.Context, status string) ([]*models.Event, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var events []*models.Event
	for _, event := range ms.events {
		if event.Status == status {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

func (ms *MemStore) ReserveSeat(ctx context.Context, eventID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	event, ok := ms.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	if !event.IsActive() {
		return models.ErrEventNotActive
	}
	if event.IsFull() {
		return models.ErrEventFull
	}
	event.CurrentParticipants++
	event.UpdatedAt = time.Now()
	return nil
}

func (ms *MemStore) ReleaseSeat(ctx context.Context, eventID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	event, ok := ms.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	if event.CurrentParticipants > 0 {
		event.CurrentParticipants--
		event.UpdatedAt = time.Now()
	}
	return nil
}

func (ms *MemStore) InsertBooking(ctx context.Context, booking *models.Booking) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	// Uniqueness of (event_id, email) among non-cancelled bookings, enforced
	// under the same lock that serializes inserts.
	for _, existing := range ms.bookings {
		if existing.EventID == booking.EventID &&
			existing.Email == booking.Email &&
			existing.Status != models.BookingStatusCancelled {
			return models.ErrDuplicateBooking
		}
	}
	copied := *booking
	ms.bookings[booking.ID] = &copied
	return nil
}

func (ms *MemStore) GetBookingDetail(ctx context.Context, id string) (*models.BookingDetail, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	booking, ok := ms.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	return ms.detailLocked(booking), nil
}

func (ms *MemStore) ListBookingDetailsByStatus(ctx context.Context, status string) ([]*models.BookingDetail, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var details []*models.BookingDetail
	for _, booking := range ms.bookings {
		if booking.Status == status {
			details = append(details, ms.detailLocked(booking))
		}
	}
	return details, nil
}

// detailLocked joins a booking with its event projection. Callers hold the lock.
func (ms *MemStore) detailLocked(booking *models.Booking) *models.BookingDetail {
	detail := &models.BookingDetail{Booking: *booking}
	if event, ok := ms.events[booking.EventID]; ok {
		detail.EventName = event.Name
		detail.EventDate = event.Date
		detail.EventTime = event.Time
		detail.EventVenue = event.Venue
	}
	return detail
}

func (ms *MemStore) UpdateBooking(ctx context.Context, id string, fields map[string]interface{}) (*models.Booking, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	booking, ok := ms.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	for key, value := range fields {
		switch key {
		case "participant_name":
			booking.ParticipantName = value.(string)
		case "phone":
			booking.Phone = value.(string)
		case "college":
			booking.College = value.(string)
		case "department":
			booking.Department = value.(string)
		case "year":
			booking.Year = value.(string)
		default:
			return nil, fmt.Errorf("unknown booking field %q", key)
		}
	}
	booking.UpdatedAt = time.Now()
	copied := *booking
	return &copied, nil
}

func (ms *MemStore) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	booking, ok := ms.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	if booking.Status != models.BookingStatusConfirmed {
		return nil, models.ErrBookingNotActive
	}
	booking.Status = models.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	copied := *booking
	return &copied, nil
}

func (ms *MemStore) DeleteBookingsByEvent(ctx context.Context, eventID string) (int64, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var deleted int64
	for id, booking := range ms.bookings {
		if booking.EventID == eventID {
			delete(ms.bookings, id)
			deleted++
		}
	}
	return deleted, nil
}
