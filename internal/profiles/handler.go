package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
)

// Store is the profile persistence used by Handler.
type Store interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, patch models.ProfilePatch) (*models.Profile, error)
}

// Handler handles profile HTTP endpoints.
type Handler struct {
	repo   Store
	logger *zap.Logger
}

// NewHandler creates a profiles handler.
func NewHandler(repo Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Get handles GET /me/profile.
func (h *Handler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	p, err := h.repo.Get(c.Request.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "profile not found")
		return
	}
	if err != nil {
		h.logger.Error("get profile", zap.Error(err))
		response.Internal(c, "failed to load profile")
		return
	}
	response.OK(c, p)
}

// Update handles PATCH /me/profile. Only supplied fields change.
func (h *Handler) Update(c *gin.Context) {
	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if patch.Empty() {
		response.BadRequest(c, "no fields to update")
		return
	}
	if err := Validate(patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	p, err := h.repo.Update(c.Request.Context(), userID, patch)
	if err != nil {
		h.logger.Error("update profile", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to update profile")
		return
	}
	response.OK(c, p)
}

// Validate checks onboarding answers against the accepted choices.
func Validate(p models.ProfilePatch) error {
	if p.Graduation != nil && *p.Graduation != "" && !models.Contains(models.DefaultGraduationTerms, *p.Graduation) {
		return fmt.Errorf("graduation must be one of Spring/Fall '24 through '31, got %q", *p.Graduation)
	}
	if p.Commitment != nil && *p.Commitment != "" && !models.Contains(models.CommitmentOptions, *p.Commitment) {
		return fmt.Errorf("unknown commitment option %q", *p.Commitment)
	}
	for _, club := range p.Clubs {
		if !models.Contains(models.ClubPassions, club) {
			return fmt.Errorf("unknown club passion %q", club)
		}
	}
	return nil
}
