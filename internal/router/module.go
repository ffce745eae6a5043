package router

import "github.com/gin-gonic/gin"

// Module is a feature area that registers its routes on a group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
