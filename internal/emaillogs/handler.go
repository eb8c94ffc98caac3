package emaillogs

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Lister reads the delivery log.
type Lister interface {
	List(ctx context.Context, f ListFilter) ([]*models.EmailLog, error)
}

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /admin/email-logs?type=&status=&limit=. Call after RequireRole(admin).
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{EmailType: c.Query("type"), Status: c.Query("status"), Limit: defaultLimit}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		f.Limit = min(n, maxLimit)
	}
	logs, err := h.repo.List(c.Request.Context(), f)
	if err != nil {
		h.logger.Error("list email logs", zap.Error(err))
		response.Internal(c, "failed to load email logs")
		return
	}
	response.List(c, logs)
}
