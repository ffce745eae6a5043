package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/response"
)

// SessionChecker confirms that a token's session is still the current one.
type SessionChecker interface {
	SessionActive(ctx context.Context, userID, sid string) bool
}

// Auth validates the access token and requires its session to be active.
// It sets userID and sessionID in the Gin context on success.
func Auth(sessions SessionChecker, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, problem := parseAccess(c, jwt)
		if claims == nil {
			response.Abort(c, http.StatusUnauthorized, problem, nil)
			return
		}
		if !sessions.SessionActive(c.Request.Context(), claims.UserID, claims.SessionID) {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

// OptionalAuth sets userID when a valid session is presented and otherwise
// lets the request through anonymously.
func OptionalAuth(sessions SessionChecker, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := parseAccess(c, jwt); claims != nil &&
			sessions.SessionActive(c.Request.Context(), claims.UserID, claims.SessionID) {
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxSessionIDKey, claims.SessionID)
		}
		c.Next()
	}
}
