package announcements

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
	"github.com/herdup/herdup/pkg/utils"
)

// Store is the announcement persistence used by Handler.
type Store interface {
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Announcement, error)
}

// Handler handles announcement HTTP endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates an announcements handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /announcements?organization_ids=a,b. No ids, empty list.
func (h *Handler) List(c *gin.Context) {
	ids, err := utils.ParseUUIDList(c.Query("organization_ids"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(ids) == 0 {
		response.List(c, nil)
		return
	}
	list, err := h.repo.ListByOrganizations(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("list announcements", zap.Error(err))
		response.Internal(c, "failed to load announcements")
		return
	}
	response.List(c, list)
}
