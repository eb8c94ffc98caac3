package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailType identifies a transactional email.
const (
	EmailTypePasswordReset    = "password_reset"
	EmailTypeRSVPConfirmation = "rsvp_confirmation"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records a delivery attempt made by the worker.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	EventID        *uuid.UUID `json:"event_id,omitempty"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
