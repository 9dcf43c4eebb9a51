package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// StudentHandler student accounts (teachers and admins)
type StudentHandler struct {
	svc service.StudentService
}

// NewStudentHandler creates a StudentHandler
func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// List GET /api/v1/students?department=
func (h *StudentHandler) List(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), req.Department)
	if err != nil {
		handleStudentError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create POST /api/v1/students
func (h *StudentHandler) Create(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		handleStudentError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update PUT /api/v1/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleStudentError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		handleStudentError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Student deleted"})
}

func handleStudentError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrStudentNotFound) {
		response.NotFound(c, 15004, err.Error())
		return
	}
	handleCommonError(c, 15001, err)
}
