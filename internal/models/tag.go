package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag categorizes organizations and doubles as a user interest.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"tag_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Interest associates a user with a tag by name.
type Interest struct {
	UserID  uuid.UUID `json:"user_id"`
	TagName string    `json:"tag_name"`
}
