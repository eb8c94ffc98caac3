package profiles

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
)

type memStore map[uuid.UUID]*models.Profile

func (m memStore) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m memStore) Update(_ context.Context, id uuid.UUID, patch models.ProfilePatch) (*models.Profile, error) {
	p, ok := m[id]
	if !ok {
		p = &models.Profile{UserID: id}
		m[id] = p
	}
	if patch.Major != nil {
		p.Major = *patch.Major
	}
	if patch.Graduation != nil {
		p.Graduation = *patch.Graduation
	}
	if patch.Commitment != nil {
		p.Commitment = *patch.Commitment
	}
	if patch.Clubs != nil {
		p.Clubs = patch.Clubs
	}
	return p, nil
}

func TestValidate(t *testing.T) {
	s := func(v string) *string { return &v }
	assert.NoError(t, Validate(models.ProfilePatch{Graduation: s("Fall '27"), Commitment: s("Don't know"), Clubs: []string{"Tech"}}))
	assert.Error(t, Validate(models.ProfilePatch{Graduation: s("Summer '27")}))
	assert.Error(t, Validate(models.ProfilePatch{Graduation: s("Spring '32")}))
	assert.Error(t, Validate(models.ProfilePatch{Commitment: s("Always")}))
	assert.Error(t, Validate(models.ProfilePatch{Clubs: []string{"Knitting"}}))
}

func TestUpdateProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := uuid.New()
	store := memStore{user: {UserID: user, FirstName: "Bevo"}}
	h := NewHandler(store, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(middleware.ContextUserID, user) })
	r.GET("/me/profile", h.Get)
	r.PATCH("/me/profile", h.Update)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/me/profile", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := patch(`{"major":"Computer Science","graduation":"Spring '26"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Computer Science", store[user].Major)
	assert.Equal(t, "Bevo", store[user].FirstName)

	assert.Equal(t, http.StatusBadRequest, patch(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, patch(`{"commitment":"sometimes"}`).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/profile", nil))
	assert.Contains(t, w.Body.String(), `"graduation":"Spring '26"`)
}
