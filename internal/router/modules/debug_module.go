package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/profolio/internal/interface/middleware"
)

// DebugModule exposes expvar at /debug/vars, rate-limited per IP except for
// private networks.
type DebugModule struct {
	Guards Guards
}

func NewDebugModule(g Guards) *DebugModule { return &DebugModule{Guards: g} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Guards.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
