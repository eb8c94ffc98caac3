package screens

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
)

// InterestEditor edits the user's interest tags. Toggles change a candidate set; Commit
// replaces the stored set with it in one call.
type InterestEditor struct {
	session *SessionResolver
	repo    Repository
	logger  *zap.Logger

	mu        sync.Mutex
	catalogue []models.Tag
	current   []string
	candidate map[string]struct{}
}

func NewInterestEditor(session *SessionResolver, repo Repository, logger *zap.Logger) *InterestEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterestEditor{session: session, repo: repo, logger: logger, candidate: map[string]struct{}{}}
}

// Load reads the tag catalogue and the user's current interests.
func (e *InterestEditor) Load(ctx context.Context) error {
	if _, err := e.session.Require(ctx); err != nil {
		return err
	}
	tags, err := e.repo.Tags(ctx)
	if err != nil {
		e.logger.Error("load tags", zap.Error(err))
		return err
	}
	current, err := e.repo.Interests(ctx)
	if err != nil {
		e.logger.Error("load interests", zap.Error(err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.catalogue = tags
	e.current = normalize(current)
	e.candidate = toSet(e.current)
	return nil
}

// Toggle flips name in the candidate set.
func (e *InterestEditor) Toggle(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.candidate[name]; ok {
		delete(e.candidate, name)
		return
	}
	e.candidate[name] = struct{}{}
}

// Selected reports whether name is in the candidate set.
func (e *InterestEditor) Selected(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.candidate[name]
	return ok
}

// Candidate returns the candidate set, sorted.
func (e *InterestEditor) Candidate() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedKeys(e.candidate)
}

// Current returns the last stored set.
func (e *InterestEditor) Current() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.current...)
}

func (e *InterestEditor) Catalogue() []models.Tag {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalogue
}

// Dirty reports whether the candidate differs from the stored set.
func (e *InterestEditor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.candidate) != len(e.current) {
		return true
	}
	for _, n := range e.current {
		if _, ok := e.candidate[n]; !ok {
			return true
		}
	}
	return false
}

// Commit stores the candidate set. On failure the stored set is left as it was.
func (e *InterestEditor) Commit(ctx context.Context) error {
	if _, err := e.session.Require(ctx); err != nil {
		return err
	}
	names := e.Candidate()
	stored, err := e.repo.ReplaceInterests(ctx, names)
	if err != nil {
		e.logger.Error("replace interests", zap.Strings("tags", names), zap.Error(err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = normalize(stored)
	e.candidate = toSet(e.current)
	return nil
}

func normalize(names []string) []string {
	return sortedKeys(toSet(names))
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
