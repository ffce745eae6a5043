package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/profolio/internal/interface/http"
	"github.com/oksasatya/profolio/internal/interface/middleware"
)

// MessageModule serves the public contact form and the owner's inbox.
type MessageModule struct {
	Handler      *handlers.MessageHandler
	Guards       Guards
	ContactLimit int // per minute per IP
}

func NewMessageModule(h *handlers.MessageHandler, g Guards, contactLimit int) *MessageModule {
	return &MessageModule{Handler: h, Guards: g, ContactLimit: contactLimit}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	rg.POST("/portfolios/:id/contact", m.Guards.PerMinute(m.ContactLimit, middleware.KeyByIPAndPath()), m.Handler.Contact)

	auth := m.Guards.Protected(rg)
	{
		auth.GET("/messages", m.Handler.Inbox)
		auth.GET("/messages/:id", m.Handler.Get)
		auth.DELETE("/messages/:id", m.Handler.Delete)
		auth.GET("/portfolios/:id/messages", m.Handler.ListForPortfolio)
	}
}
