package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/service"
	pkgerrors "school-attendance/pkg/errors"
	"school-attendance/pkg/response"
	"school-attendance/pkg/validator"
)

// bindError 400 with the translated validation message and per-field details;
// 413 when BodyLimit cut the body off
func bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "Request body too large")
		return
	}
	msg, details := validator.Translate(err)
	if details == nil {
		response.BadRequest(c, 10001, msg)
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, msg, details)
}

// handleCommonError errors every module shares: caller input, storage outage, anything else
func handleCommonError(c *gin.Context, code int, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, code, err.Error())
	case errors.Is(err, pkgerrors.ErrStorageUnavailable):
		response.ServiceUnavailable(c, "Storage temporarily unavailable")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
