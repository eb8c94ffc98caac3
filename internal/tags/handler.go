package tags

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
)

// Lister reads the tag catalogue.
type Lister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// Handler serves GET /tags.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates a tags handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /tags.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list tags", zap.Error(err))
		response.Internal(c, "failed to load tags")
		return
	}
	response.List(c, list)
}
