package screens

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/client"
)

// ErrNotSignedIn is returned by actions that need a session when there is none.
var ErrNotSignedIn = errors.New("not signed in")

// SessionSource validates the stored token against the server.
type SessionSource interface {
	Session(ctx context.Context) (models.Session, error)
}

// SessionResolver turns the stored access token into a session.
type SessionResolver struct {
	tokens client.TokenStore
	source SessionSource
	logger *zap.Logger
}

// NewSessionResolver builds a resolver over a token store and the session endpoint.
func NewSessionResolver(tokens client.TokenStore, source SessionSource, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionResolver{tokens: tokens, source: source, logger: logger}
}

// Resolve returns the current session. A missing or rejected token is an absent session, not an error.
func (r *SessionResolver) Resolve(ctx context.Context) (models.Session, bool, error) {
	token, err := r.tokens.Token()
	if err != nil {
		return models.Session{}, false, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return models.Session{}, false, nil
	}
	s, err := r.source.Session(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		r.logger.Info("stored token rejected, clearing it")
		if clearErr := r.tokens.Clear(); clearErr != nil {
			r.logger.Warn("clear token", zap.Error(clearErr))
		}
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, err
	}
	return s, true, nil
}

// Require is Resolve with an absent session reported as ErrNotSignedIn.
func (r *SessionResolver) Require(ctx context.Context) (models.Session, error) {
	s, ok, err := r.Resolve(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, ErrNotSignedIn
	}
	return s, nil
}
