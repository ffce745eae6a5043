package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/profolio/internal/interface/middleware"
	"github.com/oksasatya/profolio/pkg/helpers"
)

// Guards holds the auth and rate-limit middleware shared by modules.
type Guards struct {
	Auth     gin.HandlerFunc
	Optional gin.HandlerFunc
	Redis    *redis.Client
}

func NewGuards(sessions middleware.SessionChecker, jwt *helpers.JWTManager, rdb *redis.Client) Guards {
	return Guards{
		Auth:     middleware.Auth(sessions, jwt),
		Optional: middleware.OptionalAuth(sessions, jwt),
		Redis:    rdb,
	}
}

// PerMinute limits to limit requests per minute per key.
func (g Guards) PerMinute(limit int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, limit, time.Minute, key, nil)
}

// Protected is a group requiring a session with the usual per-user limit.
func (g Guards) Protected(rg *gin.RouterGroup) *gin.RouterGroup {
	auth := rg.Group("/")
	auth.Use(g.Auth, g.PerMinute(120, middleware.KeyByUserID()))
	return auth
}
