package interests

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdup/herdup/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore mimics the transactional replace: on any error the previous set survives.
type memStore struct {
	known map[string]bool
	sets  map[uuid.UUID][]string
	fail  bool
}

func (s *memStore) List(_ context.Context, userID uuid.UUID) ([]string, error) {
	return append([]string{}, s.sets[userID]...), nil
}

func (s *memStore) Replace(_ context.Context, userID uuid.UUID, names []string) ([]string, error) {
	names = Normalize(names)
	for _, n := range names {
		if !s.known[n] {
			return nil, ErrUnknownTag
		}
	}
	if s.fail {
		return nil, errors.New("insert failed")
	}
	s.sets[userID] = names
	return names, nil
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"Design", "Health"}, Normalize([]string{" Health", "Design", "Health", ""}))
	assert.Equal(t, []string{}, Normalize(nil))
}

func TestReplace(t *testing.T) {
	user := uuid.New()
	store := &memStore{
		known: map[string]bool{"Health": true, "Design": true, "Tech": true},
		sets:  map[uuid.UUID][]string{user: {"Health"}},
	}
	h := NewHandler(store, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserID, user) })
	r.GET("/me/interests", h.Get)
	r.PUT("/me/interests", h.Replace)

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/me/interests", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := put(`{"tags":["Tech","Design","Tech"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":["Design","Tech"]}`, w.Body.String())

	w = put(`{"tags":["Tech","Knitting"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Design", "Tech"}, store.sets[user])

	store.fail = true
	w = put(`{"tags":["Health"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, []string{"Design", "Tech"}, store.sets[user])

	store.fail = false
	w = put(`{"tags":[]}`)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/interests", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestReplaceRequiresTagsField(t *testing.T) {
	user := uuid.New()
	store := &memStore{
		known: map[string]bool{"Health": true},
		sets:  map[uuid.UUID][]string{user: {"Health"}},
	}
	h := NewHandler(store, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserID, user) })
	r.PUT("/me/interests", h.Replace)

	for _, body := range []string{`{"tag":["Health"]}`, `{}`, `{"tags":null}`} {
		req := httptest.NewRequest(http.MethodPut, "/me/interests", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, []string{"Health"}, store.sets[user], body)
	}
}
