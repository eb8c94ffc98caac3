package interests

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/pkg/response"
)

// Store is the interest persistence used by Handler.
type Store interface {
	List(ctx context.Context, userID uuid.UUID) ([]string, error)
	Replace(ctx context.Context, userID uuid.UUID, names []string) ([]string, error)
}

// ReplaceRequest is the body for PUT /me/interests. Tags must be present; [] clears the set.
type ReplaceRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// Handler handles interest HTTP endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates an interests handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /me/interests.
func (h *Handler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	names, err := h.repo.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list interests", zap.Error(err))
		response.Internal(c, "failed to load interests")
		return
	}
	response.List(c, names)
}

// Replace handles PUT /me/interests. The submitted list becomes the whole interest set.
func (h *Handler) Replace(c *gin.Context) {
	var req ReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	names, err := h.repo.Replace(c.Request.Context(), userID, req.Tags)
	if errors.Is(err, ErrUnknownTag) {
		response.BadRequest(c, "unknown tag in interests")
		return
	}
	if err != nil {
		h.logger.Error("replace interests", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to save interests")
		return
	}
	response.List(c, names)
}
