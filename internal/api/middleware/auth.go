package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"school-attendance/internal/model"
	"school-attendance/pkg/jwt"
	"school-attendance/pkg/response"
)

// Context keys set by JWTAuth
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// TokenChecker revoked-token lookup (Redis blacklist)
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth verifies the session bearer token from Authorization: Bearer <token>.
// Browsers cannot set headers on a websocket handshake, so upgrade requests
// may pass the token as ?token= instead.
// checker may be nil; a failing checker lets the request through.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, 10002, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "Unauthorized")
			c.Abort()
			return
		}

		if claims.TokenType != "access" || !model.Role(claims.Role).Valid() {
			response.Unauthorized(c, 10002, "Unauthorized")
			c.Abort()
			return
		}

		if checker != nil && claims.ID != "" {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Unauthorized")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if websocket.IsWebSocketUpgrade(c.Request) {
			if t := c.Query("token"); t != "" {
				return t, true
			}
		}
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RoleAuth allows only the listed roles
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, 10002, "Unauthorized")
			c.Abort()
			return
		}

		userRole, _ := role.(string)
		for _, r := range allowedRoles {
			if userRole == string(r) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "Forbidden")
		c.Abort()
	}
}
