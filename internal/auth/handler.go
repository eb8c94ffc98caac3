package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/queue"
	"github.com/herdup/herdup/pkg/response"
	"github.com/herdup/herdup/pkg/utils"
)

// ResetTokenTTL is how long an emailed password reset link stays valid.
const ResetTokenTTL = time.Hour

// UserStore is the persistence the auth handler needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, p CreateUserParams) (*models.User, error)
	CreatePasswordReset(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, tokenHash, passwordHash string) error
}

// ResetMailer queues password reset emails.
type ResetMailer interface {
	EnqueuePasswordReset(ctx context.Context, payload queue.PasswordResetPayload) error
}

// SignUpRequest is the body for POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	UTEID    string `json:"ut_eid"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest is the body for POST /auth/password-reset.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest is the body for POST /auth/password-reset/confirm.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	users       UserStore
	jwt         *JWTService
	revocations RevocationStore
	mailer      ResetMailer
	baseURL     string
	logger      *zap.Logger
}

// NewHandler creates an auth handler. mailer may be nil, in which case reset links are only logged.
func NewHandler(users UserStore, jwt *JWTService, revocations RevocationStore, mailer ResetMailer, baseURL string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{users: users, jwt: jwt, revocations: revocations, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	if _, err := h.users.GetByEmail(ctx, req.Email); err == nil {
		response.Conflict(c, "email already registered")
		return
	} else if !errors.Is(err, ErrUserNotFound) {
		h.logger.Error("lookup user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.users.Create(ctx, CreateUserParams{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		UTEID:        strings.TrimSpace(req.UTEID),
		Role:         models.RoleStudent,
	})
	if errors.Is(err, ErrEmailTaken) {
		response.Conflict(c, "email already registered")
		return
	}
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	c.JSON(http.StatusOK, response.Body{Success: true, Data: TokenResponse{Token: token, User: user.ToPublic()}})
}

// Logout handles POST /auth/logout. The presented token stops validating immediately.
func (h *Handler) Logout(c *gin.Context) {
	claims := c.MustGet(ContextClaims).(*Claims)
	expires := time.Now()
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	if err := h.revocations.Revoke(c.Request.Context(), claims.ID, expires); err != nil {
		h.logger.Error("revoke token", zap.Error(err))
		response.Internal(c, "failed to sign out")
		return
	}
	response.NoContent(c)
}

// Session handles GET /auth/session.
func (h *Handler) Session(c *gin.Context) {
	claims := c.MustGet(ContextClaims).(*Claims)
	response.OK(c, claims.Session())
}

// RequestPasswordReset handles POST /auth/password-reset. It answers the same way whether
// or not the email is registered.
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()
	accepted := gin.H{"message": "if the address is registered, a reset link has been sent"}

	user, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			h.logger.Error("lookup user for reset", zap.Error(err))
		}
		response.OK(c, accepted)
		return
	}

	token, err := utils.NewToken(32)
	if err != nil {
		response.Internal(c, "failed to create reset token")
		return
	}
	if err := h.users.CreatePasswordReset(ctx, user.ID, utils.HashToken(token), time.Now().Add(ResetTokenTTL)); err != nil {
		h.logger.Error("store reset token", zap.Error(err))
		response.Internal(c, "failed to create reset token")
		return
	}

	payload := queue.PasswordResetPayload{
		UserID:         user.ID,
		RecipientEmail: user.Email,
		ResetURL:       h.baseURL + "/reset-password/" + token,
	}
	if h.mailer == nil {
		h.logger.Warn("email queue not configured; reset link not sent", zap.String("user_id", user.ID.String()))
	} else if err := h.mailer.EnqueuePasswordReset(ctx, payload); err != nil {
		h.logger.Error("enqueue reset email", zap.Error(err))
		response.ServiceUnavailable(c, "could not send reset email, try again later")
		return
	}
	response.OK(c, accepted)
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm.
func (h *Handler) ConfirmPasswordReset(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	err = h.users.ResetPassword(c.Request.Context(), utils.HashToken(req.Token), hash)
	if errors.Is(err, ErrResetTokenInvalid) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("reset password", zap.Error(err))
		response.Internal(c, "failed to reset password")
		return
	}
	response.NoContent(c)
}
