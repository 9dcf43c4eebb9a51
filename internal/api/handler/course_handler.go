package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// CourseHandler courses and subjects
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler creates a CourseHandler
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// List GET /api/v1/courses (public, the registration form needs it)
func (h *CourseHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.Created(c, resp)
}

// Rename PUT /api/v1/courses/:id
func (h *CourseHandler) Rename(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Rename(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Course deleted"})
}

// ── subjects ──

// AddSubject POST /api/v1/courses/:id/subjects
func (h *CourseHandler) AddSubject(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.AddSubject(c.Request.Context(), actorID, c.Param("id"), req.Name)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.Created(c, resp)
}

// RenameSubject PUT /api/v1/courses/:id/subjects
func (h *CourseHandler) RenameSubject(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RenameSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.RenameSubject(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, resp)
}

// RemoveSubject DELETE /api/v1/courses/:id/subjects
func (h *CourseHandler) RemoveSubject(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.RemoveSubject(c.Request.Context(), actorID, c.Param("id"), req.Name)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, resp)
}

func handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14004, err.Error())
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 14005, err.Error())
	default:
		handleCommonError(c, 14001, err)
	}
}
