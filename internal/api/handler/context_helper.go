package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"school-attendance/internal/api/middleware"
	"school-attendance/internal/model"
	"school-attendance/internal/service"
	"school-attendance/pkg/response"
)

// MustGetUserID reads user_id set by JWTAuth.
// On failure a 401 has already been written; the caller just returns.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		response.Unauthorized(c, 10002, "Unauthorized")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Unauthorized")
		return "", false
	}
	return s, true
}

// MustGetRole reads role set by JWTAuth
func MustGetRole(c *gin.Context) (model.Role, bool) {
	v, exists := c.Get(middleware.CtxRole)
	if !exists {
		response.Unauthorized(c, 10002, "Unauthorized")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "Unauthorized")
		return "", false
	}
	return model.Role(s), true
}

// MustGetRequester user id and role together
func MustGetRequester(c *gin.Context) (service.Requester, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return service.Requester{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Requester{}, false
	}
	return service.Requester{ID: id, Role: role}, true
}

// tokenIdentity jti and remaining lifetime of the caller's token
func tokenIdentity(c *gin.Context) (string, time.Duration) {
	jti := c.GetString(middleware.CtxTokenJTI)
	exp := c.GetTime(middleware.CtxTokenExp)
	if jti == "" || exp.IsZero() {
		return "", 0
	}
	return jti, time.Until(exp)
}
