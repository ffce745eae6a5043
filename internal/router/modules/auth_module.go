package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
	"github.com/oksasatya/profolio/internal/interface/middleware"
)

// AuthModule: POST /signup, /login, /refresh (public), /logout (session).
type AuthModule struct {
	Handler *handlers.AuthHandler
	Guards  Guards
}

func NewAuthModule(h *handlers.AuthHandler, g Guards) *AuthModule {
	return &AuthModule{Handler: h, Guards: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Guards.PerMinute(5, middleware.KeyByIPAndPath()), m.Handler.Signup)
	rg.POST("/login", m.Guards.PerMinute(10, middleware.KeyByIP()), m.Handler.Login)
	rg.POST("/refresh", m.Guards.PerMinute(60, middleware.KeyByIP()), m.Handler.Refresh)

	m.Guards.Protected(rg).POST("/logout", m.Handler.Logout)
}
