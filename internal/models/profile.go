package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile holds onboarding answers for a user.
type Profile struct {
	UserID     uuid.UUID `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Major      string    `json:"major"`
	Minor      string    `json:"minor"`
	Graduation string    `json:"graduation"`
	Commitment string    `json:"commitment"`
	Clubs      []string  `json:"clubs"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update; nil fields are left unchanged.
type ProfilePatch struct {
	FirstName  *string  `json:"first_name,omitempty"`
	LastName   *string  `json:"last_name,omitempty"`
	Major      *string  `json:"major,omitempty"`
	Minor      *string  `json:"minor,omitempty"`
	Graduation *string  `json:"graduation,omitempty"`
	Commitment *string  `json:"commitment,omitempty"`
	Clubs      []string `json:"clubs,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Major == nil && p.Minor == nil &&
		p.Graduation == nil && p.Commitment == nil && p.Clubs == nil
}

// CommitmentOptions are the accepted weekly time commitment answers.
var CommitmentOptions = []string{
	"Occasional (1-2 Hours)",
	"Light participation (3-5 Hours)",
	"Regular involvement (6-10 Hours)",
	"Committed (11-13 Hours)",
	"All in (14+ Hours)",
	"Don't know",
}

// ClubPassions are the onboarding passion chips.
var ClubPassions = []string{"Business", "Health", "Tech", "Sustainability", "Design", "Networking"}

// GraduationTerms returns Spring/Fall terms from first to last year inclusive, e.g. "Spring '24".
func GraduationTerms(first, last int) []string {
	var terms []string
	for y := first; y <= last; y++ {
		terms = append(terms, fmt.Sprintf("Spring '%02d", y%100), fmt.Sprintf("Fall '%02d", y%100))
	}
	return terms
}

// DefaultGraduationTerms covers Spring '24 through Fall '31.
var DefaultGraduationTerms = GraduationTerms(2024, 2031)

// Contains reports whether s is in list.
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
