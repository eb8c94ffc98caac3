package screens

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/internal/search"
	"github.com/herdup/herdup/pkg/client"
)

// MinQueryLength is the shortest query sent without a tag filter.
const MinQueryLength = 2

// SuggestionTagLimit caps the tags shown on a suggestion card.
const SuggestionTagLimit = 5

// ErrSearchUnavailable is shown when the search service cannot be reached.
var ErrSearchUnavailable = errors.New("Failed to connect to the server. Please try again.")

// SuggestionCard is an organization shown before the user searches.
type SuggestionCard struct {
	ID          string
	Name        string
	Description *string
	Logo        *string
	Tags        []string
}

// SearchScreen holds the search query, the tag selection and the latest results.
// Only the response to the most recent request is ever applied.
type SearchScreen struct {
	api      SearchAPI
	debounce time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	query       string
	selection   TagSelection
	results     []search.Result
	err         error
	loading     bool
	seq         uint64
	cancel      context.CancelFunc
	timer       *time.Timer
	pending     sync.WaitGroup
	tags        []models.Tag
	suggestions []SuggestionCard
}

// NewSearchScreen builds a search screen. With debounce 0 every change issues a request.
func NewSearchScreen(api SearchAPI, debounce time.Duration, logger *zap.Logger) *SearchScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchScreen{api: api, debounce: debounce, logger: logger, results: []search.Result{}}
}

// SetQuery updates the query text and refreshes the results.
func (s *SearchScreen) SetQuery(ctx context.Context, text string) {
	s.mu.Lock()
	s.query = text
	s.refreshLocked(ctx)
}

// ToggleTag toggles a tag filter and refreshes the results.
func (s *SearchScreen) ToggleTag(ctx context.Context, id int64) {
	s.mu.Lock()
	s.selection.Toggle(id)
	s.refreshLocked(ctx)
}

// refreshLocked must be called with mu held; it releases it.
func (s *SearchScreen) refreshLocked(ctx context.Context) {
	s.seq++
	seq := s.seq
	s.stopPendingLocked()

	if utf8.RuneCountInString(s.query) < MinQueryLength && s.selection.Len() == 0 {
		s.results = []search.Result{}
		s.err = nil
		s.loading = false
		s.mu.Unlock()
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loading = true
	req := search.Request{Query: s.query, TagIDs: s.selection.IDs()}
	// Short text never reaches the backend; selected tags filter alone.
	if utf8.RuneCountInString(req.Query) < MinQueryLength {
		req.Query = ""
	}

	if s.debounce <= 0 {
		s.mu.Unlock()
		s.run(reqCtx, seq, req)
		return
	}
	s.pending.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() {
		defer s.pending.Done()
		s.run(reqCtx, seq, req)
	})
	s.mu.Unlock()
}

func (s *SearchScreen) stopPendingLocked() {
	if s.timer != nil {
		if s.timer.Stop() {
			s.pending.Done()
		}
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *SearchScreen) run(ctx context.Context, seq uint64, req search.Request) {
	resp, err := s.api.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return
	}
	s.loading = false
	switch {
	case err != nil:
		s.logger.Warn("search failed", zap.String("query", req.Query), zap.Error(err))
		s.results = []search.Result{}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			s.err = errors.New(apiErr.Message)
		} else {
			s.err = ErrSearchUnavailable
		}
	case resp.Status != search.StatusSuccess:
		s.results = []search.Result{}
		s.err = errors.New(resp.Message)
	default:
		s.results = resp.Results
		if s.results == nil {
			s.results = []search.Result{}
		}
		s.err = nil
	}
}

// Wait blocks until debounced requests that have already been scheduled finish.
func (s *SearchScreen) Wait() {
	s.pending.Wait()
}

// Close cancels pending and in-flight requests.
func (s *SearchScreen) Close() {
	s.mu.Lock()
	s.seq++
	s.stopPendingLocked()
	s.loading = false
	s.mu.Unlock()
}

// LoadCatalogue fetches the tag chips and the suggestion cards. On failure the previous catalogue is kept.
func (s *SearchScreen) LoadCatalogue(ctx context.Context) error {
	tags, err := s.api.SearchTags(ctx)
	if err != nil {
		s.logger.Error("load tags", zap.Error(err))
		return err
	}
	orgs, err := s.api.SearchOrganizations(ctx)
	if err != nil {
		s.logger.Error("load organizations", zap.Error(err))
		return err
	}
	cards := make([]SuggestionCard, 0, len(orgs))
	for _, o := range orgs {
		t := o.Tags
		if len(t) > SuggestionTagLimit {
			t = t[:SuggestionTagLimit]
		}
		cards = append(cards, SuggestionCard{ID: o.ID.String(), Name: o.Name, Description: o.Description, Logo: o.Logo, Tags: t})
	}

	s.mu.Lock()
	s.tags = tags
	s.suggestions = cards
	s.mu.Unlock()
	return nil
}

// Suggest returns name completions for a prefix.
func (s *SearchScreen) Suggest(ctx context.Context, prefix string) ([]search.Suggestion, error) {
	if utf8.RuneCountInString(prefix) < MinQueryLength {
		return []search.Suggestion{}, nil
	}
	return s.api.Autocomplete(ctx, prefix)
}

func (s *SearchScreen) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns a copy of the applied results.
func (s *SearchScreen) Results() []search.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]search.Result, len(s.results))
	copy(out, s.results)
	return out
}

// Err is the user-visible error of the last applied request.
func (s *SearchScreen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SearchScreen) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SearchScreen) SelectedTags() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.IDs()
}

func (s *SearchScreen) Tags() []models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tags
}

func (s *SearchScreen) Suggestions() []SuggestionCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}
