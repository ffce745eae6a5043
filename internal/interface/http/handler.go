package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/interface/middleware"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/response"
	"github.com/oksasatya/profolio/pkg/validation"
)

func currentUserID(c *gin.Context) string { return c.GetString(middleware.CtxUserIDKey) }

// bind decodes the JSON body into dst and writes a 400 when it cannot.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// requireOwner fails with Forbidden unless the signed-in user is owner.
func requireOwner(c *gin.Context, owner *primitive.ObjectID, what string) bool {
	if owner == nil || owner.Hex() != currentUserID(c) {
		response.FromError(c, apperror.Forbidden("You do not own this "+what))
		return false
	}
	return true
}
