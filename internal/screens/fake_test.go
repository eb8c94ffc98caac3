package screens

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/client"
)

type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int

	session    models.Session
	sessionErr error

	memberIDs     []uuid.UUID
	orgs          map[uuid.UUID]models.Organization
	events        []models.Event
	announcements []models.Announcement
	logos         []models.OrganizationLogo
	eventsErr     error

	tags         []models.Tag
	interests    []string
	replaceErr   error
	profile      models.Profile
	patches      []models.ProfilePatch
	rsvps        []models.RSVP
	joined       []uuid.UUID
	resetEmails  []string
	loggedOut    bool
	signUpInputs []client.SignUpInput
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{calls: map[string]int{}, orgs: map[uuid.UUID]models.Organization{}}
}

func (f *fakeRepo) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) Session(ctx context.Context) (models.Session, error) {
	f.hit("Session")
	return f.session, f.sessionErr
}

func (f *fakeRepo) MemberOrganizationIDs(ctx context.Context) ([]uuid.UUID, error) {
	f.hit("MemberOrganizationIDs")
	return f.memberIDs, nil
}

func (f *fakeRepo) OrganizationsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Organization, error) {
	f.hit("OrganizationsByIDs")
	var out []models.Organization
	for _, id := range ids {
		if o, ok := f.orgs[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) Organization(ctx context.Context, id uuid.UUID) (models.Organization, error) {
	f.hit("Organization")
	o, ok := f.orgs[id]
	if !ok {
		return models.Organization{}, &client.APIError{Status: 404, Message: "Organization not found"}
	}
	return o, nil
}

func (f *fakeRepo) OrganizationLogos(ctx context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error) {
	f.hit("OrganizationLogos")
	return f.logos, nil
}

func (f *fakeRepo) JoinOrganization(ctx context.Context, id uuid.UUID) error {
	f.hit("JoinOrganization")
	f.joined = append(f.joined, id)
	return nil
}

func (f *fakeRepo) LeaveOrganization(ctx context.Context, id uuid.UUID) error {
	f.hit("LeaveOrganization")
	return nil
}

func (f *fakeRepo) EventsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Event, error) {
	f.hit("EventsByOrganizations")
	return f.events, f.eventsErr
}

func (f *fakeRepo) EventsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Event, error) {
	f.hit("EventsForOrganization")
	return append([]models.Event(nil), f.events...), f.eventsErr
}

func (f *fakeRepo) Event(ctx context.Context, id uuid.UUID) (models.Event, error) {
	f.hit("Event")
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, client.ErrNotFound
}

func (f *fakeRepo) AnnouncementsByOrganizations(ctx context.Context, ids []uuid.UUID) ([]models.Announcement, error) {
	f.hit("AnnouncementsByOrganizations")
	return f.announcements, nil
}

func (f *fakeRepo) AnnouncementsForOrganization(ctx context.Context, id uuid.UUID) ([]models.Announcement, error) {
	f.hit("AnnouncementsForOrganization")
	return append([]models.Announcement(nil), f.announcements...), nil
}

func (f *fakeRepo) Tags(ctx context.Context) ([]models.Tag, error) {
	f.hit("Tags")
	return f.tags, nil
}

func (f *fakeRepo) Interests(ctx context.Context) ([]string, error) {
	f.hit("Interests")
	return f.interests, nil
}

func (f *fakeRepo) ReplaceInterests(ctx context.Context, names []string) ([]string, error) {
	f.hit("ReplaceInterests")
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.interests = append([]string(nil), names...)
	return f.interests, nil
}

func (f *fakeRepo) Profile(ctx context.Context) (models.Profile, error) {
	f.hit("Profile")
	return f.profile, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Profile, error) {
	f.hit("UpdateProfile")
	f.patches = append(f.patches, patch)
	if patch.Major != nil {
		f.profile.Major = *patch.Major
	}
	if patch.Graduation != nil {
		f.profile.Graduation = *patch.Graduation
	}
	return f.profile, nil
}

func (f *fakeRepo) RSVP(ctx context.Context, eventID uuid.UUID, notify bool) (models.RSVP, error) {
	f.hit("RSVP")
	r := models.RSVP{EventID: eventID, UserID: f.session.UserID, Notify: notify}
	f.rsvps = append(f.rsvps, r)
	return r, nil
}

func (f *fakeRepo) CancelRSVP(ctx context.Context, eventID uuid.UUID) error {
	f.hit("CancelRSVP")
	kept := f.rsvps[:0]
	for _, r := range f.rsvps {
		if r.EventID != eventID {
			kept = append(kept, r)
		}
	}
	f.rsvps = kept
	return nil
}

func (f *fakeRepo) MyRSVPs(ctx context.Context) ([]models.RSVP, error) {
	f.hit("MyRSVPs")
	return f.rsvps, nil
}

func (f *fakeRepo) SignUp(ctx context.Context, in client.SignUpInput) (models.UserPublic, error) {
	f.hit("SignUp")
	f.signUpInputs = append(f.signUpInputs, in)
	return models.UserPublic{ID: f.session.UserID, Email: in.Email, FullName: in.FullName}, nil
}

func (f *fakeRepo) Login(ctx context.Context, email, password string) (models.UserPublic, error) {
	f.hit("Login")
	return models.UserPublic{ID: f.session.UserID, Email: email}, nil
}

func (f *fakeRepo) Logout(ctx context.Context) error {
	f.hit("Logout")
	f.loggedOut = true
	return nil
}

func (f *fakeRepo) RequestPasswordReset(ctx context.Context, email string) error {
	f.hit("RequestPasswordReset")
	f.resetEmails = append(f.resetEmails, email)
	return nil
}

// signedIn returns a resolver with a stored token backed by repo.
func signedIn(repo *fakeRepo) (*SessionResolver, *client.MemoryTokenStore) {
	tokens := &client.MemoryTokenStore{}
	_ = tokens.SetToken("tok")
	if repo.session.UserID == uuid.Nil {
		repo.session = models.Session{UserID: uuid.New(), Email: "bevo@utexas.edu"}
	}
	return NewSessionResolver(tokens, repo, nil), tokens
}

func signedOut(repo *fakeRepo) *SessionResolver {
	return NewSessionResolver(&client.MemoryTokenStore{}, repo, nil)
}

func strPtr(s string) *string { return &s }
