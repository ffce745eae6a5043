package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/mailer"
	"github.com/oksasatya/profolio/pkg/response"
)

type MessageHandler struct {
	Messages   *application.MessageService
	Portfolios *application.PortfolioService
	Mail       mailer.Sender
	AppName    string
	Logger     *logrus.Logger
}

func NewMessageHandler(messages *application.MessageService, portfolios *application.PortfolioService, mail mailer.Sender, appName string, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{Messages: messages, Portfolios: portfolios, Mail: mail, AppName: appName, Logger: logger}
}

type contactRequest struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Message     string `json:"message"`
}

// Contact stores a message for the :id portfolio and emails its owner.
// The message is kept when delivery fails.
func (h *MessageHandler) Contact(c *gin.Context) {
	var req contactRequest
	if !bind(c, &req) {
		return
	}
	m, p, err := h.Messages.Create(c.Request.Context(), c.Param("id"), req.SenderName, req.SenderEmail, req.Message)
	if err != nil {
		response.FromError(c, err)
		return
	}
	delivered := h.notify(c.Request.Context(), m, p)
	response.Success(c, http.StatusCreated, m, "message sent", map[string]any{"emailed": delivered})
}

func (h *MessageHandler) notify(ctx context.Context, m *entity.Message, p *entity.Portfolio) bool {
	log := h.Logger.WithFields(logrus.Fields{"portfolio_id": p.ID.Hex(), "message_id": m.ID.Hex()})
	if h.Mail == nil || p.ContactEmail == nil || *p.ContactEmail == "" {
		log.Warn("no contact address; message stored only")
		return false
	}
	msg, err := mailer.ContactEmail(h.AppName, *p.ContactEmail, p.Title, m.SenderName, m.SenderEmail, m.Message, m.SentAt)
	if err != nil {
		log.WithError(err).Error("render contact email failed")
		return false
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := h.Mail.Send(c, msg); err != nil {
		log.WithError(err).Warn("contact email delivery failed")
		return false
	}
	return true
}

// Inbox lists messages sent to any of the caller's portfolios, newest first.
func (h *MessageHandler) Inbox(c *gin.Context) {
	out, err := h.Messages.ListByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "messages", map[string]any{"count": len(out)})
}

func (h *MessageHandler) ListForPortfolio(c *gin.Context) {
	p, err := h.Portfolios.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !requireOwner(c, &p.OwnerID, "portfolio") {
		return
	}
	out, err := h.Messages.ListByPortfolio(c.Request.Context(), p.ID.Hex())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "messages", map[string]any{"count": len(out)})
}

// owned loads the :id message and requires the caller to own its portfolio.
func (h *MessageHandler) owned(c *gin.Context) (*entity.Message, bool) {
	ctx := c.Request.Context()
	m, err := h.Messages.GetByID(ctx, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	p, err := h.Portfolios.GetByID(ctx, m.PortfolioID.Hex())
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return m, requireOwner(c, &p.OwnerID, "message")
}

func (h *MessageHandler) Get(c *gin.Context) {
	m, ok := h.owned(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, m, "message", nil)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	m, ok := h.owned(c)
	if !ok {
		return
	}
	if err := h.Messages.Remove(c.Request.Context(), m.ID.Hex()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "id": m.ID.Hex()}, "message deleted", nil)
}
