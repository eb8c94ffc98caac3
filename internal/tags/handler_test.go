package tags

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/herdup/herdup/internal/models"
)

type listerFunc func(ctx context.Context) ([]models.Tag, error)

func (f listerFunc) List(ctx context.Context) ([]models.Tag, error) { return f(ctx) }

func TestList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(listerFunc(func(context.Context) ([]models.Tag, error) {
		return []models.Tag{{ID: 1, Name: "Health"}, {ID: 2, Name: "Design"}}, nil
	}), nil)
	r := gin.New()
	r.GET("/tags", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tags", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tag_name":"Health"`)
	assert.Contains(t, w.Body.String(), `"tag_name":"Design"`)
}
