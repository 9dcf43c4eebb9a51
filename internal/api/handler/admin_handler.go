package handler

import (
	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// AdminHandler teacher approval and dashboard
type AdminHandler struct {
	users service.UserService
	stats service.StatsService
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(users service.UserService, stats service.StatsService) *AdminHandler {
	return &AdminHandler{users: users, stats: stats}
}

// ListTeachers GET /api/v1/admin/teachers?status=pending|approved
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	var req dto.TeacherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.users.ListTeachers(c.Request.Context(), req.Status)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

// UpdateTeacher PUT /api/v1/admin/teachers/:id
func (h *AdminHandler) UpdateTeacher(c *gin.Context) {
	var req dto.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.users.UpdateTeacher(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

// ApproveTeacher PUT /api/v1/admin/teachers/:id/approve
func (h *AdminHandler) ApproveTeacher(c *gin.Context) {
	resp, err := h.users.ApproveTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, resp)
}

// DeleteTeacher DELETE /api/v1/admin/teachers/:id
func (h *AdminHandler) DeleteTeacher(c *gin.Context) {
	if err := h.users.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		handleUserError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Teacher deleted"})
}

// Stats GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	resp, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		handleCommonError(c, 10001, err)
		return
	}
	response.OK(c, resp)
}
