package search

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the search API. Bodies follow the search API's own format, not the response envelope.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a search handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the search routes on g.
func (h *Handler) Register(g gin.IRoutes) {
	g.GET("/api/search", h.Search)
	g.POST("/api/search", h.Search)
	g.GET("/api/autocomplete", h.Autocomplete)
	g.POST("/api/autocomplete", h.Autocomplete)
	g.GET("/api/tags", h.Tags)
	g.GET("/api/organizations", h.Organizations)
}

func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"status": StatusError, "message": err.Error()})
}

// parseRequest reads {query, tagIds} from a JSON body (POST) or the query string (GET).
// A malformed POST body is treated as an empty request.
func parseRequest(c *gin.Context) (Request, error) {
	var req Request
	if c.Request.Method == http.MethodPost {
		_ = c.ShouldBindJSON(&req)
		return req, nil
	}
	req.Query = c.Query("query")
	if raw := c.Query("tagIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return req, err
			}
			req.TagIDs = append(req.TagIDs, id)
		}
	}
	return req, nil
}

// Search handles GET|POST /api/search.
func (h *Handler) Search(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusError, "message": "tagIds must be comma-separated integers"})
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "search failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Autocomplete handles GET|POST /api/autocomplete.
func (h *Handler) Autocomplete(c *gin.Context) {
	req, _ := parseRequest(c)
	suggestions, err := h.svc.Autocomplete(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, "autocomplete failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": StatusSuccess, "suggestions": suggestions})
}

// Tags handles GET /api/tags.
func (h *Handler) Tags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		h.logger.Error("load tags", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tags})
}

// Organizations handles GET /api/organizations.
func (h *Handler) Organizations(c *gin.Context) {
	orgs, err := h.svc.Organizations(c.Request.Context())
	if err != nil {
		h.logger.Error("load organizations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": orgs})
}
