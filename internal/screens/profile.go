package screens

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
)

// ProfileState is what the profile screen renders.
type ProfileState struct {
	SignedIn  bool
	Profile   models.Profile
	Interests []string
}

// ProfileScreen shows the signed-in user's profile and interests.
type ProfileScreen struct {
	session  *SessionResolver
	repo     Repository
	accounts Accounts
	logger   *zap.Logger

	mu    sync.Mutex
	state ProfileState
}

func NewProfileScreen(session *SessionResolver, repo Repository, accounts Accounts, logger *zap.Logger) *ProfileScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileScreen{session: session, repo: repo, accounts: accounts, logger: logger}
}

func (p *ProfileScreen) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Load refreshes the profile. On failure the previous state is kept.
func (p *ProfileScreen) Load(ctx context.Context) error {
	s, ok, err := p.session.Resolve(ctx)
	if err != nil {
		return err
	}
	if !ok {
		p.set(ProfileState{})
		return nil
	}
	profile, err := p.repo.Profile(ctx)
	if err != nil {
		p.logger.Error("load profile", zap.String("user_id", s.UserID.String()), zap.Error(err))
		return err
	}
	interests, err := p.repo.Interests(ctx)
	if err != nil {
		p.logger.Error("load interests", zap.String("user_id", s.UserID.String()), zap.Error(err))
		return err
	}
	if interests == nil {
		interests = []string{}
	}
	p.set(ProfileState{SignedIn: true, Profile: profile, Interests: interests})
	return nil
}

// SignOut ends the session and clears the screen.
func (p *ProfileScreen) SignOut(ctx context.Context) error {
	if err := p.accounts.Logout(ctx); err != nil {
		p.logger.Error("sign out", zap.Error(err))
		return err
	}
	p.set(ProfileState{})
	return nil
}

func (p *ProfileScreen) set(s ProfileState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
