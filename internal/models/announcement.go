package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is a short post by an organization.
type Announcement struct {
	ID               uuid.UUID `json:"id"`
	Description      string    `json:"announcement_description"`
	Date             string    `json:"announcement_date"`
	Time             string    `json:"announcement_time"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	CreatedAt        time.Time `json:"created_at"`
}
