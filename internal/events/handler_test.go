package events

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/herdup/herdup/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	events []*models.Event
	calls  int
}

func (s *memStore) ListByOrganizations(_ context.Context, ids []uuid.UUID) ([]*models.Event, error) {
	s.calls++
	var out []*models.Event
	for _, e := range s.events {
		for _, id := range ids {
			if e.OrganizationID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func TestListRequiresOrganizations(t *testing.T) {
	org := uuid.New()
	store := &memStore{events: []*models.Event{{ID: uuid.New(), Name: "Kickoff", OrganizationID: org, Date: "2024-09-01", Time: "18:00"}}}
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/events", h.List)
	r.GET("/events/:id", h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
	assert.Zero(t, store.calls)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?organization_ids="+org.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"event_name":"Kickoff"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
