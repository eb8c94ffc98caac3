package screens

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/client"
)

// ErrOrganizationNotFound is shown for an unknown organization id.
var ErrOrganizationNotFound = errors.New("Organization not found")

// OrgState is what the organization detail screen renders.
type OrgState struct {
	Organization  *models.Organization
	Events        []models.Event
	Announcements []models.Announcement
	Err           error
}

// OrgScreen shows one organization with its events and announcements.
type OrgScreen struct {
	repo   Repository
	links  *Links
	logger *zap.Logger

	mu    sync.Mutex
	state OrgState
}

func NewOrgScreen(repo Repository, links *Links, logger *zap.Logger) *OrgScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrgScreen{repo: repo, links: links, logger: logger}
}

func (o *OrgScreen) State() OrgState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Load fetches the organization. Event and announcement failures leave those lists empty.
func (o *OrgScreen) Load(ctx context.Context, id uuid.UUID) {
	state := OrgState{Events: []models.Event{}, Announcements: []models.Announcement{}}

	org, err := o.repo.Organization(ctx, id)
	switch {
	case errors.Is(err, client.ErrNotFound):
		state.Err = ErrOrganizationNotFound
	case err != nil:
		o.logger.Error("load organization", zap.String("org_id", id.String()), zap.Error(err))
		state.Err = err
	default:
		state.Organization = &org
	}
	if state.Err != nil {
		o.set(state)
		return
	}

	if events, err := o.repo.EventsForOrganization(ctx, id); err != nil {
		o.logger.Error("load organization events", zap.String("org_id", id.String()), zap.Error(err))
	} else if events != nil {
		SortEvents(events)
		state.Events = events
	}
	if list, err := o.repo.AnnouncementsForOrganization(ctx, id); err != nil {
		o.logger.Error("load organization announcements", zap.String("org_id", id.String()), zap.Error(err))
	} else if list != nil {
		SortAnnouncements(list)
		state.Announcements = list
	}
	o.set(state)
}

func (o *OrgScreen) set(s OrgState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Join adds the signed-in user to the loaded organization.
func (o *OrgScreen) Join(ctx context.Context) error {
	org := o.State().Organization
	if org == nil {
		return ErrOrganizationNotFound
	}
	return o.repo.JoinOrganization(ctx, org.ID)
}

// Leave removes the signed-in user from the loaded organization.
func (o *OrgScreen) Leave(ctx context.Context) error {
	org := o.State().Organization
	if org == nil {
		return ErrOrganizationNotFound
	}
	return o.repo.LeaveOrganization(ctx, org.ID)
}

// OpenWebsite opens the organization's website, if it has one.
func (o *OrgScreen) OpenWebsite() {
	if org := o.State().Organization; org != nil && org.Website != nil {
		o.links.Open(WebsiteURL(*org.Website))
	}
}

// OpenEmail opens a mail composer for the organization's email, if it has one.
func (o *OrgScreen) OpenEmail() {
	if org := o.State().Organization; org != nil && org.Email != nil {
		o.links.Open(MailtoURL(*org.Email))
	}
}

// SortEvents orders events soonest first.
func SortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
}

// SortAnnouncements orders announcements newest first.
func SortAnnouncements(list []models.Announcement) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date > list[j].Date
		}
		return list[i].Time > list[j].Time
	})
}
