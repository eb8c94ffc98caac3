package screens

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/herdup/herdup/internal/models"
)

// HomeState is what the home screen renders.
type HomeState struct {
	SignedIn      bool
	Organizations []models.Organization
	Events        []EventCard
	Announcements []AnnouncementCard
}

// HomeScreen shows events and announcements from the user's organizations.
type HomeScreen struct {
	session *SessionResolver
	repo    Repository
	logger  *zap.Logger

	mu    sync.Mutex
	state HomeState
}

func NewHomeScreen(session *SessionResolver, repo Repository, logger *zap.Logger) *HomeScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HomeScreen{session: session, repo: repo, logger: logger, state: emptyHome(false)}
}

func emptyHome(signedIn bool) HomeState {
	return HomeState{
		SignedIn:      signedIn,
		Organizations: []models.Organization{},
		Events:        []EventCard{},
		Announcements: []AnnouncementCard{},
	}
}

// State returns the current view state.
func (h *HomeScreen) State() HomeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Load refreshes the screen. On failure the previous state is kept and the error returned.
func (h *HomeScreen) Load(ctx context.Context) error {
	_, ok, err := h.session.Resolve(ctx)
	if err != nil {
		h.logger.Error("resolve session", zap.Error(err))
		return err
	}
	if !ok {
		h.set(emptyHome(false))
		return nil
	}

	ids, err := h.repo.MemberOrganizationIDs(ctx)
	if err != nil {
		h.logger.Error("load memberships", zap.Error(err))
		return err
	}
	if len(ids) == 0 {
		h.set(emptyHome(true))
		return nil
	}

	var (
		orgs          []models.Organization
		events        []models.Event
		announcements []models.Announcement
		logos         []models.OrganizationLogo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orgs, err = fetchByKeys(gctx, ids, h.repo.OrganizationsByIDs)
		return err
	})
	g.Go(func() (err error) {
		events, err = fetchByKeys(gctx, ids, h.repo.EventsByOrganizations)
		return err
	})
	g.Go(func() (err error) {
		announcements, err = fetchByKeys(gctx, ids, h.repo.AnnouncementsByOrganizations)
		return err
	})
	g.Go(func() (err error) {
		logos, err = fetchByKeys(gctx, ids, h.repo.OrganizationLogos)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load home", zap.Int("organizations", len(ids)), zap.Error(err))
		return err
	}

	h.set(HomeState{
		SignedIn:      true,
		Organizations: orgs,
		Events:        EventsWithLogos(events, logos),
		Announcements: AnnouncementsWithLogos(announcements, logos),
	})
	return nil
}

func (h *HomeScreen) set(s HomeState) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}
