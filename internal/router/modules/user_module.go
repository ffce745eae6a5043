package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
	"github.com/oksasatya/profolio/internal/interface/middleware"
)

// Module wires the signed-in user's profile routes:
// GET /profile, POST /profile/picture, DELETE /profile.
type Module struct {
	Handler *handlers.UserHandler
	Guards  Guards
}

func New(h *handlers.UserHandler, g Guards) *Module {
	return &Module{Handler: h, Guards: g}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	auth := m.Guards.Protected(rg)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.POST("/profile/picture", m.Guards.PerMinute(10, middleware.KeyByUserID()), m.Handler.UploadPicture)
		auth.DELETE("/profile", m.Handler.DeleteAccount)
	}
}
