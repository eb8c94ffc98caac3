package events

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
	"github.com/herdup/herdup/pkg/utils"
)

// Store is the event persistence used by Handler.
type Store interface {
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /events?organization_ids=a,b. No ids, empty list.
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
		h.logger.Error("list events", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	response.List(c, list)
}

// Get handles GET /events/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, e)
}
