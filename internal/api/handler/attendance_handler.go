package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/dto"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler marking and history
type AttendanceHandler struct {
	svc    service.AttendanceService
	export service.ExportService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(svc service.AttendanceService, export service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, export: export}
}

// Submit POST /api/v1/attendance
func (h *AttendanceHandler) Submit(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), teacherID, &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, resp)
}

// List GET /api/v1/attendance?student_id=
func (h *AttendanceHandler) List(c *gin.Context) {
	requester, ok := MustGetRequester(c)
	if !ok {
		return
	}
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), requester, req.StudentID)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	response.OK(c, resp)
}

// Export GET /api/v1/attendance/export?student_id=
func (h *AttendanceHandler) Export(c *gin.Context) {
	requester, ok := MustGetRequester(c)
	if !ok {
		return
	}
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.export.ExportAttendance(c.Request.Context(), requester, req.StudentID)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoValidRecords):
		response.BadRequest(c, 13002, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 13003, err.Error())
	default:
		handleCommonError(c, 13001, err)
	}
}
