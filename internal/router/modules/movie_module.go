package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
)

// MovieModule: reads are public, writes need a session.
type MovieModule struct {
	Handler *handlers.MovieHandler
	Guards  Guards
}

func NewMovieModule(h *handlers.MovieHandler, g Guards) *MovieModule {
	return &MovieModule{Handler: h, Guards: g}
}

func (m *MovieModule) Register(rg *gin.RouterGroup) {
	rg.GET("/movies", m.Handler.List)
	rg.GET("/movies/:id", m.Handler.Get)
	rg.GET("/movies/:id/reviews", m.Handler.ListReviews)
	rg.GET("/reviews/:reviewId", m.Handler.GetReview)

	auth := m.Guards.Protected(rg)
	{
		auth.POST("/movies", m.Handler.Create)
		auth.PUT("/movies/:id", m.Handler.Update)
		auth.DELETE("/movies/:id", m.Handler.Delete)
		auth.POST("/movies/:id/reviews", m.Handler.CreateReview)
		auth.DELETE("/reviews/:reviewId", m.Handler.DeleteReview)
	}
}
