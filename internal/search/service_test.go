package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdup/herdup/internal/models"
)

type memStore struct {
	docs     []Document
	tagged   map[int64][]uuid.UUID
	docCalls int
	err      error
}

func (s *memStore) Documents(context.Context) ([]Document, error) {
	s.docCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func (s *memStore) OrganizationsWithAllTags(_ context.Context, tagIDs []int64) (map[uuid.UUID]struct{}, error) {
	counts := map[uuid.UUID]int{}
	for _, tag := range tagIDs {
		for _, id := range s.tagged[tag] {
			counts[id]++
		}
	}
	out := map[uuid.UUID]struct{}{}
	for id, n := range counts {
		if n == len(tagIDs) {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *memStore) Tags(context.Context) ([]models.Tag, error) {
	return []models.Tag{{ID: 1, Name: "Tech"}, {ID: 2, Name: "Sports"}}, nil
}

func (s *memStore) OrganizationsWithTags(context.Context) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, d := range s.docs {
		out = append(out, &models.Organization{ID: d.ID, Name: d.Name, Description: d.Description, Tags: []string{}})
	}
	return out, nil
}

func str(s string) *string { return &s }

var (
	roboticsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	chessID    = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	rowingID   = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

func fixtureStore() *memStore {
	return &memStore{
		docs: []Document{
			{ID: chessID, Name: "Chess Club", Description: str("Play chess every week")},
			{ID: roboticsID, Name: "Longhorn Robotics", Description: str("Build robots for competitions"), Logo: str("https://img/robot.png")},
			{ID: rowingID, Name: "Rowing Team", Description: nil},
		},
		tagged: map[int64][]uuid.UUID{
			1: {roboticsID, chessID},
			2: {rowingID, chessID},
		},
	}
}

func ids(results []Result) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	svc := NewService(fixtureStore(), 0, 0, nil)
	resp, err := svc.Search(context.Background(), Request{Query: "Robot"})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Results)
	first := resp.Results[0]
	assert.Equal(t, roboticsID, first.ID)
	assert.Equal(t, 1.0, first.Similarity)
	assert.Equal(t, ResultTypeOrganization, first.Type)
	assert.Equal(t, "https://img/robot.png", *first.Logo)
	assert.NotContains(t, ids(resp.Results), chessID)
	assert.Equal(t, "robot", resp.DebugInfo.Query)
	assert.Equal(t, 3, resp.DebugInfo.RawDataCount)
	assert.Equal(t, len(resp.Results), resp.DebugInfo.TotalResults)

	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].Similarity, resp.Results[i].Similarity)
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	svc := NewService(fixtureStore(), 0, 0, nil)
	resp, err := svc.Search(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{chessID, roboticsID, rowingID}, ids(resp.Results))
	for _, r := range resp.Results {
		assert.Zero(t, r.Similarity)
	}
	assert.Equal(t, []int64{}, resp.DebugInfo.TagIDs)
}

func TestSearchTagFilterRequiresAllTags(t *testing.T) {
	svc := NewService(fixtureStore(), 0, 0, nil)

	resp, err := svc.Search(context.Background(), Request{TagIDs: []int64{1}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{roboticsID, chessID}, ids(resp.Results))

	resp, err = svc.Search(context.Background(), Request{TagIDs: []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{chessID}, ids(resp.Results))

	resp, err = svc.Search(context.Background(), Request{Query: "robot", TagIDs: []int64{2}})
	require.NoError(t, err)
	assert.NotContains(t, ids(resp.Results), roboticsID)
}

func TestSearchCacheFlushedOnReindex(t *testing.T) {
	store := fixtureStore()
	svc := NewService(store, time.Minute, 0, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, Request{Query: "chess"})
	require.NoError(t, err)
	calls := store.docCalls
	_, err = svc.Search(ctx, Request{Query: "chess"})
	require.NoError(t, err)
	assert.Equal(t, calls, store.docCalls)

	require.NoError(t, svc.Reindex(ctx))
	calls = store.docCalls
	_, err = svc.Search(ctx, Request{Query: "chess"})
	require.NoError(t, err)
	assert.Equal(t, calls+1, store.docCalls)
}

func TestAutocomplete(t *testing.T) {
	store := &memStore{}
	for i := 0; i < 7; i++ {
		store.docs = append(store.docs, Document{ID: uuid.New(), Name: "Texas Club " + string(rune('A'+i))})
	}
	svc := NewService(store, 0, 0, nil)

	got, err := svc.Autocomplete(context.Background(), "TEXAS")
	require.NoError(t, err)
	assert.Len(t, got, AutocompleteLimit)

	got, err = svc.Autocomplete(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func newTestRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(store, 0, 0, nil), nil).Register(r)
	return r
}

func TestHandlerSearch(t *testing.T) {
	r := newTestRouter(fixtureStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?query=&tagIds=1,2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
	assert.Contains(t, w.Body.String(), `"tag_ids":[1,2]`)
	assert.Contains(t, w.Body.String(), `"type":"organization"`)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"chess","tagIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), chessID.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?tagIds=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerErrors(t *testing.T) {
	r := newTestRouter(&memStore{err: errors.New("db down")})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?query=x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"load organizations: db down"}`, w.Body.String())
}

func TestHandlerCatalogue(t *testing.T) {
	r := newTestRouter(fixtureStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"tag_name":"Tech"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/organizations", nil))
	assert.Contains(t, w.Body.String(), `"tags":[]`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/autocomplete?query=chess", nil))
	assert.Contains(t, w.Body.String(), `"suggestions":[{"id":"`+chessID.String()+`","name":"Chess Club"}]`)
}

type countingReindexer struct{ n chan struct{} }

func (c *countingReindexer) Reindex(context.Context) error {
	c.n <- struct{}{}
	return nil
}

func TestIndexerBuildsAndReloads(t *testing.T) {
	target := &countingReindexer{n: make(chan struct{}, 4)}
	x := NewIndexer(target, 3600, nil)
	x.Start()
	defer x.Stop()

	wait := func() {
		select {
		case <-target.n:
		case <-time.After(2 * time.Second):
			t.Fatal("reindex not triggered")
		}
	}
	wait()
	x.Reload()
	wait()
}
