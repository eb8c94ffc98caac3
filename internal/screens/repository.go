package screens

import (
	"context"

	"github.com/google/uuid"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/internal/search"
	"github.com/herdup/herdup/pkg/client"
)

// Repository is the relational query layer every screen reads and writes through.
type Repository interface {
	MemberOrganizationIDs(ctx context.Context) ([]uuid.UUID, error)
	OrganizationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Organization, error)
	Organization(ctx context.Context, id uuid.UUID) (models.Organization, error)
	OrganizationLogos(ctx context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error)
	JoinOrganization(ctx context.Context, id uuid.UUID) error
	LeaveOrganization(ctx context.Context, id uuid.UUID) error

	EventsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Event, error)
	EventsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Event, error)
	Event(ctx context.Context, id uuid.UUID) (models.Event, error)
	AnnouncementsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Announcement, error)
	AnnouncementsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Announcement, error)

	Tags(ctx context.Context) ([]models.Tag, error)
	Interests(ctx context.Context) ([]string, error)
	ReplaceInterests(ctx context.Context, names []string) ([]string, error)

	Profile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error)

	RSVP(ctx context.Context, eventID uuid.UUID, notify bool) (models.RSVP, error)
	CancelRSVP(ctx context.Context, eventID uuid.UUID) error
	MyRSVPs(ctx context.Context) ([]models.RSVP, error)
}

// Accounts covers sign-up, sign-in and password recovery.
type Accounts interface {
	SignUp(ctx context.Context, in client.SignUpInput) (models.UserPublic, error)
	Login(ctx context.Context, email, password string) (models.UserPublic, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
}

// SearchAPI is the search service as seen by the search screen.
type SearchAPI interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
	Autocomplete(ctx context.Context, query string) ([]search.Suggestion, error)
	SearchTags(ctx context.Context) ([]models.Tag, error)
	SearchOrganizations(ctx context.Context) ([]models.Organization, error)
}

var (
	_ Repository    = (*client.Client)(nil)
	_ Accounts      = (*client.Client)(nil)
	_ SearchAPI     = (*client.Client)(nil)
	_ SessionSource = (*client.Client)(nil)
)
