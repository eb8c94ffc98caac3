package organizations

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/middleware"
	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/response"
	"github.com/herdup/herdup/pkg/storage"
	"github.com/herdup/herdup/pkg/utils"
)

// Store is the organization persistence used by Handler.
type Store interface {
	List(ctx context.Context) ([]*models.Organization, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Organization, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	Logos(ctx context.Context, ids []uuid.UUID) ([]models.OrganizationLogo, error)
	SetLogo(ctx context.Context, id uuid.UUID, logoURL string) (*string, error)
	MemberOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AddMember(ctx context.Context, orgID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, orgID, userID uuid.UUID) error
}

// LogoStorage hosts organization logos.
type LogoStorage interface {
	UploadLogo(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
	PresignLogoUpload(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
	KeyFromPublicURL(url string) string
	DeleteLogo(ctx context.Context, key string) error
}

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo         Store
	logos        LogoStorage
	logger       *zap.Logger
	onLogoChange func()
}

// NewHandler creates an organizations handler. logos may be nil when S3 is not configured.
func NewHandler(repo Store, logos LogoStorage, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logos: logos, logger: logger}
}

// OnLogoChange registers fn to run after an organization's logo URL is replaced.
func (h *Handler) OnLogoChange(fn func()) {
	h.onLogoChange = fn
}

// idsFilter reads the ids query parameter. present is false when the parameter is absent.
func idsFilter(c *gin.Context, name string) (ids []uuid.UUID, present bool, err error) {
	raw, present := c.GetQuery(name)
	if !present {
		return nil, false, nil
	}
	ids, err = utils.ParseUUIDList(raw)
	return ids, true, err
}

// List handles GET /organizations. With ?ids= only those organizations are returned; an empty list matches nothing.
func (h *Handler) List(c *gin.Context) {
	ids, filtered, err := idsFilter(c, "ids")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var orgs []*models.Organization
	switch {
	case filtered && len(ids) == 0:
	case filtered:
		orgs, err = h.repo.ListByIDs(c.Request.Context(), ids)
	default:
		orgs, err = h.repo.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("list organizations", zap.Error(err))
		response.Internal(c, "failed to load organizations")
		return
	}
	response.List(c, orgs)
}

// Logos handles GET /organizations/logos?ids=.
func (h *Handler) Logos(c *gin.Context) {
	ids, _, err := idsFilter(c, "ids")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(ids) == 0 {
		response.List(c, nil)
		return
	}
	logos, err := h.repo.Logos(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("list organization logos", zap.Error(err))
		response.Internal(c, "failed to load logos")
		return
	}
	response.List(c, logos)
}

// Get handles GET /organizations/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Organization not found")
		return
	}
	if err != nil {
		h.logger.Error("get organization", zap.Error(err), zap.String("organization_id", id.String()))
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, org)
}

// MyOrganizations handles GET /me/organizations. Returns the ids of the caller's organizations.
func (h *Handler) MyOrganizations(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ids, err := h.repo.MemberOrganizationIDs(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list memberships", zap.Error(err))
		response.Internal(c, "failed to load memberships")
		return
	}
	response.List(c, ids)
}

// Join handles POST /organizations/:id/members.
func (h *Handler) Join(c *gin.Context) {
	h.membership(c, true)
}

// Leave handles DELETE /organizations/:id/members.
func (h *Handler) Leave(c *gin.Context) {
	h.membership(c, false)
}

func (h *Handler) membership(c *gin.Context, join bool) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if join {
		err = h.repo.AddMember(c.Request.Context(), orgID, userID)
	} else {
		err = h.repo.RemoveMember(c.Request.Context(), orgID, userID)
	}
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Organization not found")
		return
	}
	if err != nil {
		h.logger.Error("update membership", zap.Error(err), zap.Bool("join", join))
		response.Internal(c, "failed to update membership")
		return
	}
	response.NoContent(c)
}

// UploadLogo handles PUT /organizations/:id/logo (admin only). Multipart form field "file".
func (h *Handler) UploadLogo(c *gin.Context) {
	if h.logos == nil {
		response.ServiceUnavailable(c, "logo storage not configured")
		return
	}
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxLogoFileSize {
		response.BadRequest(c, "logo exceeds 5MB limit")
		return
	}
	if !storage.ValidateLogoFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp and svg images allowed")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), orgID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "Organization not found")
			return
		}
		response.Internal(c, "failed to load organization")
		return
	}

	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	key := storage.LogoKey(orgID, file.Filename)
	url, err := h.logos.UploadLogo(c.Request.Context(), key, storage.ContentTypeForFilename(file.Filename), rc, file.Size)
	if err != nil {
		h.logger.Error("S3 upload failed", zap.Error(err), zap.String("organization_id", orgID.String()), zap.String("key", key))
		response.Internal(c, "failed to upload logo")
		return
	}
	if h.storeLogo(c, orgID, url) {
		response.OK(c, models.OrganizationLogo{ID: orgID, Logo: &url})
	}
}

// LogoUploadURLRequest is the body for POST /organizations/:id/logo/upload-url.
type LogoUploadURLRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// LogoUploadURL handles POST /organizations/:id/logo/upload-url (admin only).
// The logo URL is stored immediately; the client PUTs the file to upload_url.
func (h *Handler) LogoUploadURL(c *gin.Context) {
	if h.logos == nil {
		response.ServiceUnavailable(c, "logo storage not configured")
		return
	}
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	var req LogoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "filename required")
		return
	}
	if !storage.ValidateLogoFileType("", req.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp and svg images allowed")
		return
	}
	contentType := storage.ContentTypeForFilename(req.Filename)
	key := storage.LogoKey(orgID, req.Filename)
	uploadURL, err := h.logos.PresignLogoUpload(c.Request.Context(), key, contentType)
	if err != nil {
		h.logger.Error("presign logo upload", zap.Error(err), zap.String("organization_id", orgID.String()))
		response.Internal(c, "failed to create upload URL")
		return
	}
	publicURL := h.logos.PublicURL(key)
	if !h.storeLogo(c, orgID, publicURL) {
		return
	}
	response.OK(c, gin.H{"upload_url": uploadURL, "org_logo": publicURL, "content_type": contentType})
}

// storeLogo saves url as the organization's logo and deletes the object it replaced.
// On failure it writes the error response and returns false.
func (h *Handler) storeLogo(c *gin.Context, orgID uuid.UUID, url string) bool {
	prev, err := h.repo.SetLogo(c.Request.Context(), orgID, url)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Organization not found")
		return false
	}
	if err != nil {
		h.logger.Error("store logo", zap.Error(err))
		response.Internal(c, "failed to store logo")
		return false
	}
	if prev != nil && *prev != url {
		if key := h.logos.KeyFromPublicURL(*prev); key != "" {
			if err := h.logos.DeleteLogo(c.Request.Context(), key); err != nil {
				h.logger.Warn("delete previous logo", zap.Error(err), zap.String("key", key))
			}
		}
	}
	if h.onLogoChange != nil {
		h.onLogoChange()
	}
	return true
}
