package screens

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
)

// ErrEventNotLoaded is returned when an RSVP action runs before Load.
var ErrEventNotLoaded = errors.New("event not loaded")

// RSVPState is what the event detail screen renders.
type RSVPState struct {
	Event     models.Event
	Attending bool
	Notify    bool
}

// RSVPScreen shows an event and the user's RSVP to it.
type RSVPScreen struct {
	session *SessionResolver
	repo    Repository
	logger  *zap.Logger

	mu    sync.Mutex
	state RSVPState
}

func NewRSVPScreen(session *SessionResolver, repo Repository, logger *zap.Logger) *RSVPScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RSVPScreen{session: session, repo: repo, logger: logger}
}

func (r *RSVPScreen) State() RSVPState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Load fetches the event and, when signed in, whether the user is attending.
func (r *RSVPScreen) Load(ctx context.Context, eventID uuid.UUID) error {
	ev, err := r.repo.Event(ctx, eventID)
	if err != nil {
		r.logger.Error("load event", zap.String("event_id", eventID.String()), zap.Error(err))
		return err
	}
	state := RSVPState{Event: ev}

	_, ok, err := r.session.Resolve(ctx)
	if err != nil {
		return err
	}
	if ok {
		mine, err := r.repo.MyRSVPs(ctx)
		if err != nil {
			r.logger.Error("load rsvps", zap.Error(err))
			return err
		}
		for _, rs := range mine {
			if rs.EventID == eventID {
				state.Attending = true
				state.Notify = rs.Notify
				break
			}
		}
	}
	r.set(state)
	return nil
}

// Confirm RSVPs to the loaded event.
func (r *RSVPScreen) Confirm(ctx context.Context, notify bool) error {
	if _, err := r.session.Require(ctx); err != nil {
		return err
	}
	state := r.State()
	if state.Event.ID == uuid.Nil {
		return ErrEventNotLoaded
	}
	rs, err := r.repo.RSVP(ctx, state.Event.ID, notify)
	if err != nil {
		r.logger.Error("rsvp", zap.String("event_id", state.Event.ID.String()), zap.Error(err))
		return err
	}
	state.Attending = true
	state.Notify = rs.Notify
	r.set(state)
	return nil
}

// Cancel withdraws the RSVP to the loaded event.
func (r *RSVPScreen) Cancel(ctx context.Context) error {
	if _, err := r.session.Require(ctx); err != nil {
		return err
	}
	state := r.State()
	if state.Event.ID == uuid.Nil {
		return ErrEventNotLoaded
	}
	if err := r.repo.CancelRSVP(ctx, state.Event.ID); err != nil {
		r.logger.Error("cancel rsvp", zap.String("event_id", state.Event.ID.String()), zap.Error(err))
		return err
	}
	state.Attending = false
	state.Notify = false
	r.set(state)
	return nil
}

// MyRSVPs lists the signed-in user's RSVPs.
func (r *RSVPScreen) MyRSVPs(ctx context.Context) ([]models.RSVP, error) {
	if _, err := r.session.Require(ctx); err != nil {
		return nil, err
	}
	return r.repo.MyRSVPs(ctx)
}

func (r *RSVPScreen) set(s RSVPState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
