package handler

import (
	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// AuthHandler public registration
type AuthHandler struct {
	svc service.UserService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(svc service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register teacher sign-up
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.RegisterTeacher(c.Request.Context(), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.Created(c, resp)
}
