package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
)

// Scoring thresholds and limits.
const (
	ExactMatchScore        = 1.0
	TFIDFThreshold         = 0.15
	FuzzyNameThreshold     = 60
	FuzzyDescThreshold     = 50
	FuzzyLimit             = 10
	AutocompleteLimit      = 5
	DefaultMaxFeatures     = 5000
	ResultTypeOrganization = "organization"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Request is a search query plus the tag ids every result must carry.
type Request struct {
	Query  string  `json:"query"`
	TagIDs []int64 `json:"tagIds"`
}

// Result is one ranked organization.
type Result struct {
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Logo        *string   `json:"org_logo"`
	Similarity  float64   `json:"similarity"`
}

// DebugInfo echoes what the service saw.
type DebugInfo struct {
	Query        string  `json:"query"`
	TagIDs       []int64 `json:"tag_ids"`
	TotalResults int     `json:"total_results"`
	RawDataCount int     `json:"raw_data_count"`
}

// Response is the body of a successful search.
type Response struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Results   []Result  `json:"results"`
	DebugInfo DebugInfo `json:"debug_info"`
}

// Suggestion is an autocomplete entry.
type Suggestion struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// index is an immutable TF-IDF snapshot of the organization corpus.
type index struct {
	docs  []Document
	model *TFIDF
	built time.Time
}

// Service ranks organizations against free-text queries.
type Service struct {
	store       Store
	cache       *cache.Cache
	logger      *zap.Logger
	maxFeatures int

	mu  sync.RWMutex
	idx *index
}

// NewService creates a search service. Results are cached for cacheTTL; zero disables caching.
func NewService(store Store, cacheTTL time.Duration, maxFeatures int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	s := &Service{store: store, logger: logger, maxFeatures: maxFeatures}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, 2*cacheTTL)
	}
	return s
}

// Reindex rebuilds the TF-IDF index from the store and drops cached results.
func (s *Service) Reindex(ctx context.Context) error {
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Name + " " + deref(d.Description)
	}
	idx := &index{docs: docs, model: FitTFIDF(texts, s.maxFeatures), built: time.Now()}

	s.mu.Lock()
	s.idx = idx
	s.mu.Unlock()
	if s.cache != nil {
		s.cache.Flush()
	}
	s.logger.Info("search index updated", zap.Int("documents", len(docs)), zap.Int("terms", idx.model.Terms()))
	return nil
}

func (s *Service) snapshot(ctx context.Context) (*index, error) {
	s.mu.RLock()
	idx := s.idx
	s.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}
	if err := s.Reindex(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx, nil
}

// cacheKey hashes the normalised request.
func cacheKey(kind, query string, tagIDs []int64) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(0)
	b.WriteString(query)
	for _, id := range tagIDs {
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return strconv.FormatUint(xxh3.HashString(b.String()), 16)
}

// Search ranks organizations for req. An empty query returns every organization with similarity 0.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	query := strings.ToLower(req.Query)
	tagIDs := req.TagIDs
	if tagIDs == nil {
		tagIDs = []int64{}
	}

	key := cacheKey("search", query, tagIDs)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached.(*Response), nil
		}
	}

	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load organizations: %w", err)
	}

	var ranked []Result
	if query == "" {
		ranked = make([]Result, 0, len(docs))
		for _, d := range docs {
			ranked = append(ranked, toResult(d, 0))
		}
	} else {
		idx, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		ranked = rank(query, docs, idx)
	}

	if len(tagIDs) > 0 {
		keep, err := s.store.OrganizationsWithAllTags(ctx, uniqueIDs(tagIDs))
		if err != nil {
			return nil, fmt.Errorf("filter by tags: %w", err)
		}
		filtered := ranked[:0]
		for _, r := range ranked {
			if _, ok := keep[r.ID]; ok {
				filtered = append(filtered, r)
			}
		}
		ranked = filtered
	}

	resp := &Response{
		Status:  StatusSuccess,
		Results: ranked,
		DebugInfo: DebugInfo{
			Query:        query,
			TagIDs:       tagIDs,
			TotalResults: len(ranked),
			RawDataCount: len(docs),
		},
	}
	if s.cache != nil {
		s.cache.Set(key, resp, cache.DefaultExpiration)
	}
	return resp, nil
}

// rank unions exact, TF-IDF and fuzzy matches, keeping each organization's best score.
func rank(query string, docs []Document, idx *index) []Result {
	best := make(map[uuid.UUID]float64)
	byID := make(map[uuid.UUID]Document, len(docs))
	consider := func(id uuid.UUID, score float64) {
		if _, live := byID[id]; !live {
			return
		}
		if cur, ok := best[id]; !ok || score > cur {
			best[id] = score
		}
	}
	for _, d := range docs {
		byID[d.ID] = d
	}

	for _, d := range docs {
		if d.Name != "" && strings.Contains(strings.ToLower(d.Name), query) {
			consider(d.ID, ExactMatchScore)
		}
	}

	for i, sim := range idx.model.Similarities(query) {
		if sim >= TFIDFThreshold {
			consider(idx.docs[i].ID, sim)
		}
	}

	names := make([]string, len(docs))
	descs := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
		descs[i] = deref(d.Description)
	}
	for _, m := range fuzzyTop(query, names, FuzzyNameThreshold, FuzzyLimit) {
		consider(docs[m.index].ID, m.score/100)
	}
	for _, m := range fuzzyTop(query, descs, FuzzyDescThreshold, FuzzyLimit) {
		consider(docs[m.index].ID, m.score/100)
	}

	out := make([]Result, 0, len(best))
	for id, score := range best {
		out = append(out, toResult(byID[id], score))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Autocomplete returns up to five organizations whose name contains query, case-insensitively.
func (s *Service) Autocomplete(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.ToLower(query)
	if query == "" {
		return []Suggestion{}, nil
	}
	docs, err := s.store.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load organizations: %w", err)
	}
	out := []Suggestion{}
	for _, d := range docs {
		if d.Name != "" && strings.Contains(strings.ToLower(d.Name), query) {
			out = append(out, Suggestion{ID: d.ID, Name: d.Name})
			if len(out) == AutocompleteLimit {
				break
			}
		}
	}
	return out, nil
}

// Tags returns the tag catalogue.
func (s *Service) Tags(ctx context.Context) ([]models.Tag, error) {
	return cached(s, "tags", func() ([]models.Tag, error) { return s.store.Tags(ctx) })
}

// Organizations returns every organization with its tag names.
func (s *Service) Organizations(ctx context.Context) ([]*models.Organization, error) {
	return cached(s, "organizations", func() ([]*models.Organization, error) { return s.store.OrganizationsWithTags(ctx) })
}

func cached[T any](s *Service, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.([]T), nil
		}
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = []T{}
	}
	if s.cache != nil {
		s.cache.Set(key, v, cache.DefaultExpiration)
	}
	return v, nil
}

func toResult(d Document, similarity float64) Result {
	return Result{
		Type:        ResultTypeOrganization,
		ID:          d.ID,
		Title:       d.Name,
		Description: d.Description,
		Logo:        d.Logo,
		Similarity:  similarity,
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
