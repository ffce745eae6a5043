package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/response"
)

const maxItemBytes = 64 << 10

type PortfolioHandler struct {
	Portfolios *application.PortfolioService
	Users      *application.UserService
	Messages   *application.MessageService
	Logger     *logrus.Logger
}

func NewPortfolioHandler(portfolios *application.PortfolioService, users *application.UserService, messages *application.MessageService, logger *logrus.Logger) *PortfolioHandler {
	return &PortfolioHandler{Portfolios: portfolios, Users: users, Messages: messages, Logger: logger}
}

type portfolioRequest struct {
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Sections             []rules.SectionInput `json:"sections"`
	Layout               *rules.LayoutInput   `json:"layout"`
	ThemeID              string               `json:"themeId"`
	ContactButtonEnabled *bool                `json:"contactButtonEnabled"`
	ContactEmail         string               `json:"contactEmail"`
}

type sectionRequest struct {
	Type string `json:"type"`
}

func (h *PortfolioHandler) Mine(c *gin.Context) {
	out, err := h.Portfolios.ListByOwner(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "portfolios", nil)
}

func (h *PortfolioHandler) ListExamples(c *gin.Context) {
	out, err := h.Portfolios.ListExamples(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "example portfolios", nil)
}

// Search: GET /portfolios/search?q=...&size=10
func (h *PortfolioHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Portfolios.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	p, err := h.Portfolios.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "portfolio", nil)
}

// Published returns the active portfolio of a user, looked up by username.
func (h *PortfolioHandler) Published(c *gin.Context) {
	u, err := h.Users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if u.ActivePortfolioID == nil {
		response.FromError(c, apperror.NotFound("User has no active portfolio"))
		return
	}
	p, err := h.Portfolios.GetByID(c.Request.Context(), u.ActivePortfolioID.Hex())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "portfolio", map[string]any{"username": u.Username})
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req portfolioRequest
	if !bind(c, &req) {
		return
	}
	p, err := h.Portfolios.Create(c.Request.Context(), application.CreatePortfolioInput{
		OwnerID:              currentUserID(c),
		Title:                req.Title,
		Description:          req.Description,
		Sections:             req.Sections,
		Layout:               req.Layout,
		ThemeID:              req.ThemeID,
		ContactButtonEnabled: req.ContactButtonEnabled,
		ContactEmail:         req.ContactEmail,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "portfolio created", nil)
}

// owned loads the :id portfolio and requires the caller to own it.
func (h *PortfolioHandler) owned(c *gin.Context) (*entity.Portfolio, bool) {
	p, err := h.Portfolios.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return p, requireOwner(c, &p.OwnerID, "portfolio")
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	var req portfolioRequest
	if !bind(c, &req) {
		return
	}
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.Update(c.Request.Context(), p.ID.Hex(), application.UpdatePortfolioInput{
		Title:                req.Title,
		Description:          req.Description,
		Sections:             req.Sections,
		Layout:               req.Layout,
		ThemeID:              req.ThemeID,
		ContactButtonEnabled: req.ContactButtonEnabled,
		ContactEmail:         req.ContactEmail,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "portfolio updated", nil)
}

// Delete removes the portfolio and then every message sent to it.
func (h *PortfolioHandler) Delete(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.Portfolios.Remove(ctx, p.ID.Hex()); err != nil {
		response.FromError(c, err)
		return
	}
	n, err := h.Messages.RemoveByPortfolio(ctx, p.ID.Hex())
	if err != nil {
		h.Logger.WithError(err).WithField("portfolio_id", p.ID.Hex()).Error("message cascade failed")
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "id": p.ID.Hex(), "messagesDeleted": n}, "portfolio deleted", nil)
}

// Activate makes the portfolio the caller's published one.
func (h *PortfolioHandler) Activate(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	u, err := h.Users.UpdateActivePortfolio(c.Request.Context(), currentUserID(c), p.ID.Hex())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "portfolio activated", nil)
}

func (h *PortfolioHandler) Clone(c *gin.Context) {
	var req cloneRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	p, err := h.Portfolios.Clone(c.Request.Context(), c.Param("id"), currentUserID(c), req.Title)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "portfolio cloned", nil)
}

func (h *PortfolioHandler) AddSection(c *gin.Context) {
	var req sectionRequest
	if !bind(c, &req) {
		return
	}
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.AddSection(c.Request.Context(), p.ID.Hex(), req.Type)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "section added", nil)
}

func (h *PortfolioHandler) RemoveSection(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.RemoveSection(c.Request.Context(), p.ID.Hex(), c.Param("sectionId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "section removed", nil)
}

// rawItem reads the request body as the item's JSON object; its shape is
// checked against the section type by the service.
func rawItem(c *gin.Context) (json.RawMessage, bool) {
	b, err := io.ReadAll(io.LimitReader(c.Request.Body, maxItemBytes+1))
	if err != nil || len(b) > maxItemBytes || !json.Valid(b) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "invalid json"})
		return nil, false
	}
	return b, true
}

func (h *PortfolioHandler) AddItem(c *gin.Context) {
	raw, ok := rawItem(c)
	if !ok {
		return
	}
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.AddSectionItem(c.Request.Context(), p.ID.Hex(), c.Param("sectionId"), raw)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "item added", nil)
}

func (h *PortfolioHandler) UpdateItem(c *gin.Context) {
	raw, ok := rawItem(c)
	if !ok {
		return
	}
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.UpdateSectionItem(c.Request.Context(), p.ID.Hex(), c.Param("sectionId"), c.Param("itemId"), raw)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "item updated", nil)
}

func (h *PortfolioHandler) RemoveItem(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	p, err := h.Portfolios.RemoveSectionItem(c.Request.Context(), p.ID.Hex(), c.Param("sectionId"), c.Param("itemId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "item removed", nil)
}
