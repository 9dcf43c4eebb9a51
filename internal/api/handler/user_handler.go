package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// TokenRevoker blacklists a token id until it expires (Redis)
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// UserHandler the caller's own account
type UserHandler struct {
	svc     service.UserService
	revoker TokenRevoker
	logger  *zap.Logger
}

// NewUserHandler revoker may be nil
func NewUserHandler(svc service.UserService, revoker TokenRevoker, logger *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, revoker: revoker, logger: logger}
}

// GetMe profile
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateMe change password and/or username
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.UpdateSettings(c.Request.Context(), userID, &req); err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Settings updated"})
}

// DeleteMe deletes the account and revokes the token used for the call
// DELETE /api/v1/users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), userID); err != nil {
		handleUserError(c, err)
		return
	}

	if h.revoker != nil {
		if jti, ttl := tokenIdentity(c); jti != "" && ttl > 0 {
			if err := h.revoker.BlacklistToken(c.Request.Context(), jti, ttl); err != nil {
				h.logger.Warn("revoke token failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}
	response.OK(c, gin.H{"message": "Account deleted"})
}

// handleUserError registration, settings and teacher administration errors
func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11004, err.Error())
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 11005, err.Error())
	default:
		handleCommonError(c, 11001, err)
	}
}
