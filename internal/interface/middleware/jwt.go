package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/profolio/pkg/helpers"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
)

// accessToken reads the access_token cookie, falling back to a Bearer header
// for non-browser clients.
func accessToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func parseAccess(c *gin.Context, jwt *helpers.JWTManager) (*helpers.Claims, string) {
	token := accessToken(c)
	if token == "" {
		return nil, "missing access token"
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, "invalid access token"
	}
	return claims, ""
}
