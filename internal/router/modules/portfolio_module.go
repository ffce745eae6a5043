package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
	"github.com/oksasatya/profolio/internal/interface/middleware"
)

type PortfolioModule struct {
	Handler *handlers.PortfolioHandler
	Guards  Guards
}

func NewPortfolioModule(h *handlers.PortfolioHandler, g Guards) *PortfolioModule {
	return &PortfolioModule{Handler: h, Guards: g}
}

func (m *PortfolioModule) Register(rg *gin.RouterGroup) {
	// Public views
	rg.GET("/portfolios/examples", m.Handler.ListExamples)
	rg.GET("/portfolios/search", m.Guards.PerMinute(60, middleware.KeyByIP()), m.Handler.Search)
	rg.GET("/portfolios/:id", m.Handler.Get)
	rg.GET("/users/:username/portfolio", m.Handler.Published)

	auth := m.Guards.Protected(rg)
	{
		auth.GET("/portfolios", m.Handler.Mine)
		auth.POST("/portfolios", m.Handler.Create)
		auth.PUT("/portfolios/:id", m.Handler.Update)
		auth.DELETE("/portfolios/:id", m.Handler.Delete)
		auth.POST("/portfolios/:id/activate", m.Handler.Activate)
		auth.POST("/portfolios/:id/clone", m.Handler.Clone)

		auth.POST("/portfolios/:id/sections", m.Handler.AddSection)
		auth.DELETE("/portfolios/:id/sections/:sectionId", m.Handler.RemoveSection)
		auth.POST("/portfolios/:id/sections/:sectionId/items", m.Handler.AddItem)
		auth.PUT("/portfolios/:id/sections/:sectionId/items/:itemId", m.Handler.UpdateItem)
		auth.DELETE("/portfolios/:id/sections/:sectionId/items/:itemId", m.Handler.RemoveItem)
	}
}
