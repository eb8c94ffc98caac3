package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a student organization listed in the directory.
type Organization struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Logo              *string   `json:"org_logo"`
	Description       *string   `json:"org_description"`
	Email             *string   `json:"email,omitempty"`
	Instagram         *string   `json:"instagram,omitempty"`
	Facebook          *string   `json:"facebook,omitempty"`
	LinkedIn          *string   `json:"linkedin,omitempty"`
	Website           *string   `json:"website,omitempty"`
	Dues              *string   `json:"dues,omitempty"`
	MeetingTimes      *string   `json:"meeting_times,omitempty"`
	TimeCommitment    *string   `json:"time_commitment,omitempty"`
	MajorRestrictions *string   `json:"major_restrictions,omitempty"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrganizationLogo is the id/logo projection used to decorate events and announcements.
type OrganizationLogo struct {
	ID   uuid.UUID `json:"id"`
	Logo *string   `json:"org_logo"`
}

// Membership roles.
const (
	MemberRoleMember  = "member"
	MemberRoleOfficer = "officer"
)

// Membership links a user to an organization they follow or belong to.
type Membership struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"org_id"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
