package models

import "time"

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"

	EventDbName  = "eventreg"
	EventColName = "events"
)

// EventCategories is the fixed set of accepted event categories.
var EventCategories = []string{"Technical", "Workshop", "Seminar", "Competition", "Social"}

type Event struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	Description         string    `bson:"description" json:"description"`
	Date                string    `bson:"date" json:"date"` // e.g., "2026-03-14"
	Time                string    `bson:"time" json:"time"` // e.g., "18:30"
	Venue               string    `bson:"venue" json:"venue"`
	Category            string    `bson:"category" json:"category"`
	MaxParticipants     int       `bson:"max_participants" json:"maxParticipants"`
	CurrentParticipants int       `bson:"current_participants" json:"currentParticipants"`
	Status              string    `bson:"status" json:"status"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// IsFull reports whether the event has no remaining seats.
func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

// IsActive reports whether the event still accepts bookings.
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

type CreateEventRequest struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Time            string `json:"time" validate:"required"`
	Venue           string `json:"venue" validate:"required"`
	Category        string `json:"category" validate:"required,oneof=Technical Workshop Seminar Competition Social"`
	MaxParticipants int    `json:"maxParticipants" validate:"required,gte=1"`
}

// UpdateEventRequest carries a partial patch; nil fields keep their prior value.
type UpdateEventRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Date            *string `json:"date,omitempty"`
	Time            *string `json:"time,omitempty"`
	Venue           *string `json:"venue,omitempty"`
	Category        *string `json:"category,omitempty" validate:"omitempty,oneof=Technical Workshop Seminar Competition Social"`
	MaxParticipants *int    `json:"maxParticipants,omitempty" validate:"omitempty,gte=1"`
}
