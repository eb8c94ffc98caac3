package screens

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/client"
)

func TestHomeSignedOutMakesNoFetches(t *testing.T) {
	repo := newFakeRepo()
	h := NewHomeScreen(signedOut(repo), repo, nil)
	require.NoError(t, h.Load(context.Background()))
	assert.False(t, h.State().SignedIn)
	assert.Zero(t, repo.count("MemberOrganizationIDs"))
}

func TestHomeWithoutMembershipsStopsEarly(t *testing.T) {
	repo := newFakeRepo()
	resolver, _ := signedIn(repo)
	h := NewHomeScreen(resolver, repo, nil)
	require.NoError(t, h.Load(context.Background()))

	st := h.State()
	assert.True(t, st.SignedIn)
	assert.NotNil(t, st.Events)
	assert.Empty(t, st.Events)
	assert.Zero(t, repo.count("OrganizationsByIDs"))
	assert.Zero(t, repo.count("EventsByOrganizations"))
	assert.Zero(t, repo.count("OrganizationLogos"))
}

func TestHomeMergesLogos(t *testing.T) {
	repo := newFakeRepo()
	a, b := uuid.New(), uuid.New()
	repo.memberIDs = []uuid.UUID{a, b}
	repo.orgs[a] = models.Organization{ID: a, Name: "Alpha"}
	repo.orgs[b] = models.Organization{ID: b, Name: "Beta"}
	repo.events = []models.Event{{Name: "Kickoff", OrganizationID: a}, {Name: "Mixer", OrganizationID: b}}
	repo.announcements = []models.Announcement{{Description: "Hi", OrganizationID: b}}
	repo.logos = []models.OrganizationLogo{{ID: a, Logo: strPtr("https://cdn/a.png")}, {ID: b}}
	resolver, _ := signedIn(repo)
	h := NewHomeScreen(resolver, repo, nil)

	require.NoError(t, h.Load(context.Background()))
	st := h.State()
	assert.Len(t, st.Organizations, 2)
	require.Len(t, st.Events, 2)
	assert.Equal(t, "https://cdn/a.png", *st.Events[0].Logo)
	assert.Nil(t, st.Events[1].Logo)
	require.Len(t, st.Announcements, 1)
	assert.Nil(t, st.Announcements[0].Logo)
}

func TestHomeFailureKeepsPreviousState(t *testing.T) {
	repo := newFakeRepo()
	a := uuid.New()
	repo.memberIDs = []uuid.UUID{a}
	repo.orgs[a] = models.Organization{ID: a, Name: "Alpha"}
	repo.events = []models.Event{{Name: "Kickoff", OrganizationID: a}}
	resolver, _ := signedIn(repo)
	h := NewHomeScreen(resolver, repo, nil)
	require.NoError(t, h.Load(context.Background()))

	repo.eventsErr = errors.New("timeout")
	assert.Error(t, h.Load(context.Background()))
	assert.Len(t, h.State().Events, 1)
}

func TestOrgScreen(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.orgs[id] = models.Organization{ID: id, Name: "Alpha", Website: strPtr("alpha.org"), Email: strPtr("hi@alpha.org")}
	repo.events = []models.Event{
		{Name: "Late", Date: "2026-03-02", Time: "09:00"},
		{Name: "Early", Date: "2026-03-01", Time: "18:00"},
		{Name: "Morning", Date: "2026-03-01", Time: "08:00"},
	}
	repo.announcements = []models.Announcement{
		{Description: "old", Date: "2026-01-01", Time: "10:00"},
		{Description: "new", Date: "2026-02-01", Time: "09:00"},
	}
	opener := &recordingOpener{}
	o := NewOrgScreen(repo, NewLinks(opener, nil), nil)

	o.Load(context.Background(), id)
	st := o.State()
	require.NoError(t, st.Err)
	assert.Equal(t, "Alpha", st.Organization.Name)
	assert.Equal(t, []string{"Morning", "Early", "Late"}, []string{st.Events[0].Name, st.Events[1].Name, st.Events[2].Name})
	assert.Equal(t, "new", st.Announcements[0].Description)

	o.OpenWebsite()
	o.OpenEmail()
	assert.Equal(t, []string{"https://alpha.org", "mailto:hi@alpha.org"}, opener.urls)

	require.NoError(t, o.Join(context.Background()))
	assert.Equal(t, []uuid.UUID{id}, repo.joined)
}

func TestOrgScreenNotFound(t *testing.T) {
	repo := newFakeRepo()
	o := NewOrgScreen(repo, nil, nil)
	o.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, o.State().Err, ErrOrganizationNotFound)
	assert.EqualError(t, o.State().Err, "Organization not found")
	assert.Zero(t, repo.count("EventsForOrganization"))
	assert.ErrorIs(t, o.Join(context.Background()), ErrOrganizationNotFound)
}

func TestOrgScreenEventFailureLeavesListEmpty(t *testing.T) {
	repo := newFakeRepo()
	id := uuid.New()
	repo.orgs[id] = models.Organization{ID: id, Name: "Alpha"}
	repo.eventsErr = errors.New("timeout")
	o := NewOrgScreen(repo, nil, nil)
	o.Load(context.Background(), id)
	st := o.State()
	assert.NoError(t, st.Err)
	assert.NotNil(t, st.Events)
	assert.Empty(t, st.Events)
}

func TestProfileScreen(t *testing.T) {
	repo := newFakeRepo()
	repo.profile = models.Profile{FirstName: "Bevo", Major: "Finance"}
	repo.interests = []string{"Tech"}
	resolver, _ := signedIn(repo)
	p := NewProfileScreen(resolver, repo, repo, nil)

	require.NoError(t, p.Load(context.Background()))
	st := p.State()
	assert.True(t, st.SignedIn)
	assert.Equal(t, "Finance", st.Profile.Major)
	assert.Equal(t, []string{"Tech"}, st.Interests)

	require.NoError(t, p.SignOut(context.Background()))
	assert.True(t, repo.loggedOut)
	assert.False(t, p.State().SignedIn)
}

func TestOnboardingUsesResolvedSession(t *testing.T) {
	repo := newFakeRepo()
	resolver, _ := signedIn(repo)
	f := NewAuthFlow(repo, resolver, repo, nil)
	ctx := context.Background()

	_, err := f.SignUp(ctx, client.SignUpInput{Email: " bevo@utexas.edu ", Password: "hookem", FullName: "Bevo Longhorn", UTEID: "bl123"})
	require.NoError(t, err)
	assert.Equal(t, "bevo@utexas.edu", repo.signUpInputs[0].Email)
	require.Len(t, repo.patches, 1)
	assert.Equal(t, "Bevo", *repo.patches[0].FirstName)
	assert.Equal(t, "Longhorn", *repo.patches[0].LastName)

	p, err := f.SetMajor(ctx, "Finance", "")
	require.NoError(t, err)
	assert.Equal(t, "Finance", p.Major)

	_, err = f.SetGraduation(ctx, "Spring '26")
	require.NoError(t, err)
	_, err = f.SetGraduation(ctx, "Winter '26")
	assert.Error(t, err)

	_, err = f.SetCommitment(ctx, models.CommitmentOptions[0])
	require.NoError(t, err)
	_, err = f.SetClubs(ctx, []string{"Tech", "Design"})
	require.NoError(t, err)
	_, err = f.SetClubs(ctx, []string{"Knitting"})
	assert.Error(t, err)

	assert.Equal(t, 5, repo.count("UpdateProfile"))
}

func TestOnboardingWithoutSession(t *testing.T) {
	repo := newFakeRepo()
	f := NewAuthFlow(repo, signedOut(repo), repo, nil)
	_, err := f.SetMajor(context.Background(), "Finance", "")
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, repo.count("UpdateProfile"))
}

func TestForgotPassword(t *testing.T) {
	repo := newFakeRepo()
	f := NewAuthFlow(repo, signedOut(repo), repo, nil)
	assert.Error(t, f.ForgotPassword(context.Background(), "  "))
	require.NoError(t, f.ForgotPassword(context.Background(), "bevo@utexas.edu"))
	assert.Equal(t, []string{"bevo@utexas.edu"}, repo.resetEmails)
}

func TestRSVPScreen(t *testing.T) {
	repo := newFakeRepo()
	ev := models.Event{ID: uuid.New(), Name: "Kickoff"}
	repo.events = []models.Event{ev}
	resolver, _ := signedIn(repo)
	r := NewRSVPScreen(resolver, repo, nil)
	ctx := context.Background()

	require.NoError(t, r.Load(ctx, ev.ID))
	assert.False(t, r.State().Attending)

	require.NoError(t, r.Confirm(ctx, true))
	assert.True(t, r.State().Attending)
	assert.True(t, r.State().Notify)

	require.NoError(t, r.Load(ctx, ev.ID))
	assert.True(t, r.State().Attending)

	require.NoError(t, r.Cancel(ctx))
	assert.False(t, r.State().Attending)
	mine, err := r.MyRSVPs(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestRSVPNeedsSession(t *testing.T) {
	repo := newFakeRepo()
	ev := models.Event{ID: uuid.New()}
	repo.events = []models.Event{ev}
	r := NewRSVPScreen(signedOut(repo), repo, nil)
	require.NoError(t, r.Load(context.Background(), ev.ID))
	assert.ErrorIs(t, r.Confirm(context.Background(), false), ErrNotSignedIn)
	assert.Zero(t, repo.count("RSVP"))
}

func TestRSVPBeforeLoad(t *testing.T) {
	repo := newFakeRepo()
	session, _ := signedIn(repo)
	r := NewRSVPScreen(session, repo, nil)
	assert.ErrorIs(t, r.Confirm(context.Background(), true), ErrEventNotLoaded)
	assert.ErrorIs(t, r.Cancel(context.Background()), ErrEventNotLoaded)
	assert.Zero(t, repo.count("RSVP"))
	assert.Zero(t, repo.count("CancelRSVP"))
	assert.False(t, r.State().Attending)
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://utexas.edu", WebsiteURL("utexas.edu"))
	assert.Equal(t, "http://utexas.edu", WebsiteURL("http://utexas.edu"))
	assert.Equal(t, "https://utexas.edu", WebsiteURL("https://utexas.edu"))
	assert.Equal(t, "", WebsiteURL(""))
	assert.Equal(t, "mailto:a@b.c", MailtoURL("a@b.c"))
	assert.Equal(t, "", MailtoURL(" "))

	opener := &recordingOpener{err: errors.New("no browser")}
	l := NewLinks(opener, nil)
	l.Open("")
	l.Open("https://x")
	assert.Equal(t, []string{"https://x"}, opener.urls)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Mar 1", FormatDate("2026-03-01"))
	assert.Equal(t, "not a date", FormatDate("not a date"))
	assert.Equal(t, "6:30 PM", FormatTime("18:30"))
	assert.Equal(t, "9:05 AM", FormatTime("09:05:00"))
	assert.Equal(t, "soon", FormatTime("soon"))
}
