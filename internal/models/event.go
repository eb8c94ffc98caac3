package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is an organization event. Date is YYYY-MM-DD and Time is HH:MM (24h).
type Event struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"event_name"`
	Date             string    `json:"event_date"`
	Time             string    `json:"event_time"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	Location         string    `json:"location,omitempty"`
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RSVP records a user's intent to attend an event.
type RSVP struct {
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Notify    bool      `json:"notify"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
