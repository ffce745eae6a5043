package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
)

type ThemeModule struct {
	Handler *handlers.ThemeHandler
	Guards  Guards
}

func NewThemeModule(h *handlers.ThemeHandler, g Guards) *ThemeModule {
	return &ThemeModule{Handler: h, Guards: g}
}

func (m *ThemeModule) Register(rg *gin.RouterGroup) {
	rg.GET("/themes", m.Guards.Optional, m.Handler.List)
	rg.GET("/themes/examples", m.Handler.ListExamples)
	rg.GET("/themes/:id", m.Handler.Get)

	auth := m.Guards.Protected(rg)
	{
		auth.POST("/themes", m.Handler.Create)
		auth.PUT("/themes/:id", m.Handler.Update)
		auth.DELETE("/themes/:id", m.Handler.Delete)
		auth.POST("/themes/:id/clone", m.Handler.Clone)
	}
}
