package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/internal/container"
	handlers "github.com/oksasatya/profolio/internal/interface/http"
	"github.com/oksasatya/profolio/internal/router/modules"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/mailer"
)

// Deps is everything the HTTP modules need.
type Deps struct {
	Config   *config.Config
	Services *container.Services
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Mail     mailer.Sender
	Logger   *logrus.Logger
}

// InitModules wires every module from the container singletons.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	Mount(r, Deps{
		Config:   container.GetConfig(),
		Services: container.GetServices(),
		JWT:      container.GetJWT(),
		Redis:    container.GetRedis(),
		Mail:     container.GetMailSender(),
		Logger:   container.GetLogger(),
	})
}

// Mount builds handlers over d and adds their modules to r.
func Mount(r *Registry, d Deps) {
	s := d.Services
	cfg := d.Config
	guards := modules.NewGuards(s.Users, d.JWT, d.Redis)

	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(s.Users, d.Logger, cfg.CookieDomain, cfg.CookieSecure), guards),
		modules.New(handlers.NewUserHandler(s.Users, s.Portfolios, s.Messages, d.Logger, cfg.CookieDomain, cfg.CookieSecure), guards),
		modules.NewThemeModule(handlers.NewThemeHandler(s.Themes), guards),
		modules.NewPortfolioModule(handlers.NewPortfolioHandler(s.Portfolios, s.Users, s.Messages, d.Logger), guards),
		modules.NewMessageModule(handlers.NewMessageHandler(s.Messages, s.Portfolios, d.Mail, cfg.AppName, d.Logger), guards, cfg.ContactRateLimit),
		modules.NewMovieModule(handlers.NewMovieHandler(s.Movies, s.Reviews), guards),
	)
	if cfg.DebugMetricsEnabled {
		debug := modules.NewDebugModule(guards)
		r.Add(debug)
		r.AddRoot(debug)
	}
}
