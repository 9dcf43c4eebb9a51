package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// TimetableHandler weekly lectures
type TimetableHandler struct {
	svc      service.TimetableService
	calendar service.CalendarService
}

// NewTimetableHandler creates a TimetableHandler
func NewTimetableHandler(svc service.TimetableService, calendar service.CalendarService) *TimetableHandler {
	return &TimetableHandler{svc: svc, calendar: calendar}
}

// List GET /api/v1/timetable?scope=all
func (h *TimetableHandler) List(c *gin.Context) {
	requester, ok := MustGetRequester(c)
	if !ok {
		return
	}
	var req dto.TimetableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), requester, req.Scope)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// Calendar GET /api/v1/timetable/calendar.ics
func (h *TimetableHandler) Calendar(c *gin.Context) {
	requester, ok := MustGetRequester(c)
	if !ok {
		return
	}

	body, err := h.calendar.Timetable(c.Request.Context(), requester)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="timetable.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// Create POST /api/v1/timetable
func (h *TimetableHandler) Create(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.ScheduleLecture(c.Request.Context(), teacherID, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// Update PUT /api/v1/timetable/:id
func (h *TimetableHandler) Update(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.UpdateLecture(c.Request.Context(), c.Param("id"), teacherID, &req)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// Cancel PUT /api/v1/timetable/:id/cancel
func (h *TimetableHandler) Cancel(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CancelTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.ToggleCancel(c.Request.Context(), c.Param("id"), teacherID, *req.IsCancelled, req.Reason)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete DELETE /api/v1/timetable/:id
func (h *TimetableHandler) Delete(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteLecture(c.Request.Context(), c.Param("id"), teacherID); err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Timetable entry deleted"})
}

// handleTimetableError conflict messages are shown to the user verbatim
func handleTimetableError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, 12003, conflict.Error(), gin.H{
			"id":         conflict.Entry.ID,
			"day":        conflict.Entry.Day,
			"start_time": conflict.Entry.StartTime,
			"end_time":   conflict.Entry.EndTime,
			"teacher":    conflict.TeacherName,
		})
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 12002, err.Error())
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 12004, err.Error())
	case errors.Is(err, service.ErrTimetableForbidden):
		response.Forbidden(c, 12005, err.Error())
	default:
		handleCommonError(c, 12001, err)
	}
}
