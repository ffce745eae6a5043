package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/response"
)

const maxPictureBytes = 5 << 20

type UserHandler struct {
	Users      *application.UserService
	Portfolios *application.PortfolioService
	Messages   *application.MessageService
	Logger     *logrus.Logger
	Cookies    *helpers.Manager
}

func NewUserHandler(users *application.UserService, portfolios *application.PortfolioService, messages *application.MessageService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{
		Users:      users,
		Portfolios: portfolios,
		Messages:   messages,
		Logger:     logger,
		Cookies:    helpers.NewCookie(cookieDomain, cookieSecure),
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Users.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile", nil)
}

// UploadPicture stores the multipart "picture" file and points the profile at it.
func (h *UserHandler) UploadPicture(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPictureBytes)
	fh, err := c.FormFile("picture")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"picture": "is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"picture": "could not be read"})
		return
	}
	defer func() { _ = f.Close() }()

	url, u, err := h.Users.UploadProfilePicture(c.Request.Context(), currentUserID(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile picture updated", map[string]any{"url": url})
}

// DeleteAccount removes the signed-in user and ends the session.
// DeleteAccount removes the caller's portfolios with their messages, then the
// account. Example portfolios are immutable and stay.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	uid := currentUserID(c)
	owned, err := h.Portfolios.ListByOwner(ctx, uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	removed := 0
	for _, p := range owned {
		if p.IsExample {
			continue
		}
		if err := h.Portfolios.Remove(ctx, p.ID.Hex()); err != nil {
			response.FromError(c, err)
			return
		}
		if _, err := h.Messages.RemoveByPortfolio(ctx, p.ID.Hex()); err != nil {
			response.FromError(c, err)
			return
		}
		removed++
	}
	if err := h.Users.Remove(ctx, uid); err != nil {
		response.FromError(c, err)
		return
	}
	h.Cookies.Clear(c)
	h.Logger.WithFields(logrus.Fields{"user_id": uid, "portfolios": removed}).Info("account removed")
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "portfoliosDeleted": removed}, "account removed", nil)
}
