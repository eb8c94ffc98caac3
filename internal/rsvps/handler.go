package rsvps

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/events"
	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/queue"
	"github.com/herdup/herdup/pkg/response"
)

// Store is the RSVP persistence used by Handler.
type Store interface {
	Upsert(ctx context.Context, eventID, userID uuid.UUID, notify bool) (*models.RSVP, bool, error)
	Delete(ctx context.Context, eventID, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error)
}

// EventLookup loads the event being RSVP'd to.
type EventLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// ConfirmationMailer queues RSVP confirmation emails.
type ConfirmationMailer interface {
	EnqueueRSVPConfirmation(ctx context.Context, payload queue.RSVPConfirmationPayload) error
}

// RSVPRequest is the body for POST /events/:id/rsvp.
type RSVPRequest struct {
	Notify bool `json:"notify"`
}

// Handler handles RSVP HTTP endpoints.
type Handler struct {
	repo   Store
	events EventLookup
	mailer ConfirmationMailer
	logger *zap.Logger
}

// NewHandler creates an RSVP handler. mailer may be nil.
func NewHandler(repo Store, events EventLookup, mailer ConfirmationMailer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, events: events, mailer: mailer, logger: logger}
}

// Create handles POST /events/:id/rsvp. A first RSVP queues a confirmation email.
func (h *Handler) Create(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req RSVPRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request: "+err.Error())
			return
		}
	}
	ctx := c.Request.Context()
	event, err := h.events.GetByID(ctx, eventID)
	if errors.Is(err, events.ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event for rsvp", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	rsvp, created, err := h.repo.Upsert(ctx, eventID, userID, req.Notify)
	if err != nil {
		h.logger.Error("upsert rsvp", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to save RSVP")
		return
	}

	if created && h.mailer != nil {
		payload := queue.RSVPConfirmationPayload{
			UserID:         userID,
			EventID:        eventID,
			RecipientEmail: c.GetString(middleware.ContextUserEmail),
			EventName:      event.Name,
			OrgName:        event.OrganizationName,
			EventDate:      event.Date,
			EventTime:      event.Time,
			Location:       event.Location,
		}
		if err := h.mailer.EnqueueRSVPConfirmation(ctx, payload); err != nil {
			h.logger.Warn("enqueue rsvp confirmation", zap.Error(err), zap.String("event_id", eventID.String()))
		}
	}
	if created {
		response.Created(c, rsvp)
		return
	}
	response.OK(c, rsvp)
}

// Cancel handles DELETE /events/:id/rsvp.
func (h *Handler) Cancel(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if err := h.repo.Delete(c.Request.Context(), eventID, userID); err != nil {
		h.logger.Error("cancel rsvp", zap.Error(err))
		response.Internal(c, "failed to cancel RSVP")
		return
	}
	response.NoContent(c)
}

// Mine handles GET /me/rsvps.
func (h *Handler) Mine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list rsvps", zap.Error(err))
		response.Internal(c, "failed to load RSVPs")
		return
	}
	response.List(c, list)
}
