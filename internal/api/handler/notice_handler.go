package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// NoticeHandler notices board
type NoticeHandler struct {
	svc service.NoticeService
}

// NewNoticeHandler creates a NoticeHandler
func NewNoticeHandler(svc service.NoticeService) *NoticeHandler {
	return &NoticeHandler{svc: svc}
}

// List GET /api/v1/notices
func (h *NoticeHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleNoticeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create POST /api/v1/notices
func (h *NoticeHandler) Create(c *gin.Context) {
	authorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), authorID, &req)
	if err != nil {
		handleNoticeError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update PUT /api/v1/notices/:id
func (h *NoticeHandler) Update(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		handleNoticeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/notices/:id
func (h *NoticeHandler) Delete(c *gin.Context) {
	actorID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		handleNoticeError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Notice deleted"})
}

func handleNoticeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoticeNotFound) {
		response.NotFound(c, 16004, err.Error())
		return
	}
	handleCommonError(c, 16001, err)
}
