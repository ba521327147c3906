package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusWaiting   = "waiting" // reserved for capacity queueing

	BookingColName = "bookings"

	// NotSpecified is the default for the optional participant fields.
	NotSpecified = "Not specified"
)

type Booking struct {
	ID              string    `bson:"_id" json:"id"`
	EventID         string    `bson:"event_id" json:"eventId"`
	ParticipantName string    `bson:"participant_name" json:"participantName"`
	Email           string    `bson:"email" json:"email"` // stored lowercased
	Phone           string    `bson:"phone" json:"phone"`
	College         string    `bson:"college" json:"college"`
	Department      string    `bson:"department" json:"department"`
	Year            string    `bson:"year" json:"year"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// BookingDetail is a Booking joined with a read-only projection of its event.
// The event fields are computed at read time, never stored.
type BookingDetail struct {
	Booking    `bson:",inline"`
	EventName  string `bson:"event_name" json:"eventName"`
	EventDate  string `bson:"event_date" json:"eventDate"`
	EventTime  string `bson:"event_time" json:"eventTime"`
	EventVenue string `bson:"event_venue" json:"eventVenue"`
}

type CreateBookingRequest struct {
	EventID         string `json:"eventId" validate:"required"`
	ParticipantName string `json:"participantName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	College         string `json:"college"`
	Department      string `json:"department"`
	Year            string `json:"year"`
}

// UpdateBookingRequest patches contact fields only. Email and event reference
// are immutable once a booking exists (they anchor the uniqueness rule).
type UpdateBookingRequest struct {
	ParticipantName *string `json:"participantName,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	College         *string `json:"college,omitempty"`
	Department      *string `json:"department,omitempty"`
	Year            *string `json:"year,omitempty"`
}
