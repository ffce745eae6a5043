package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/response"
)

type ThemeHandler struct {
	Themes *application.ThemeService
}

func NewThemeHandler(themes *application.ThemeService) *ThemeHandler {
	return &ThemeHandler{Themes: themes}
}

type themeRequest struct {
	Name      string           `json:"name"`
	ThemeData entity.ThemeData `json:"themeData"`
}

type cloneRequest struct {
	Title string `json:"title"`
}

// List returns the example themes plus the caller's own when signed in.
func (h *ThemeHandler) List(c *gin.Context) {
	out, err := h.Themes.ListAvailable(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "themes", nil)
}

func (h *ThemeHandler) ListExamples(c *gin.Context) {
	out, err := h.Themes.ListExamples(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "example themes", nil)
}

func (h *ThemeHandler) Get(c *gin.Context) {
	t, err := h.Themes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "theme", nil)
}

func (h *ThemeHandler) Create(c *gin.Context) {
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	t, err := h.Themes.Create(c.Request.Context(), application.CreateThemeInput{
		OwnerID:   currentUserID(c),
		Name:      req.Name,
		ThemeData: req.ThemeData,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "theme created", nil)
}

// owned loads the theme and checks the caller may change it. Example themes
// pass through so the service reports them as immutable.
func (h *ThemeHandler) owned(c *gin.Context) (*entity.Theme, bool) {
	t, err := h.Themes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	if t.IsExample {
		return t, true
	}
	return t, requireOwner(c, t.OwnerID, "theme")
}

func (h *ThemeHandler) Update(c *gin.Context) {
	var req themeRequest
	if !bind(c, &req) {
		return
	}
	t, ok := h.owned(c)
	if !ok {
		return
	}
	t, err := h.Themes.Update(c.Request.Context(), t.ID.Hex(), req.Name, req.ThemeData)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t, "theme updated", nil)
}

func (h *ThemeHandler) Delete(c *gin.Context) {
	t, ok := h.owned(c)
	if !ok {
		return
	}
	if err := h.Themes.Remove(c.Request.Context(), t.ID.Hex()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "id": t.ID.Hex()}, "theme deleted", nil)
}

// Clone copies any theme, examples included, into the caller's themes.
func (h *ThemeHandler) Clone(c *gin.Context) {
	var req cloneRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	t, err := h.Themes.Clone(c.Request.Context(), c.Param("id"), currentUserID(c), req.Title)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "theme cloned", nil)
}
