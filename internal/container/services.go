package container

import (
	"sync"
	"time"

	"github.com/oksasatya/profolio/config"
	"github.com/oksasatya/profolio/internal/application"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/infrastructure/memory"
	"github.com/oksasatya/profolio/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/profolio/internal/infrastructure/postgres"
	"github.com/oksasatya/profolio/internal/infrastructure/search"
	"github.com/oksasatya/profolio/pkg/helpers"
)

const defaultLockTTL = 10 * time.Second

// Repositories is one storage backend for every aggregate.
type Repositories struct {
	Users      repo.UserRepository
	Themes     repo.ThemeRepository
	Portfolios repo.PortfolioRepository
	Messages   repo.MessageRepository
	Movies     repo.MovieRepository
}

// MemoryRepositories keeps everything in process memory.
func MemoryRepositories() Repositories {
	return Repositories{
		Users:      memory.NewUserRepository(),
		Themes:     memory.NewThemeRepository(),
		Portfolios: memory.NewPortfolioRepository(),
		Messages:   memory.NewMessageRepository(),
		Movies:     memory.NewMovieRepository(),
	}
}

// Services is the application layer wired over one set of repositories.
type Services struct {
	Repos      Repositories
	Users      *application.UserService
	Themes     *application.ThemeService
	Portfolios *application.PortfolioService
	Messages   *application.MessageService
	Movies     *application.MovieService
	Reviews    *application.ReviewService
}

// NewServices wires the services from repos and the current singletons.
func NewServices(r Repositories) *Services {
	log := GetLogger()
	locks := GetLocker()

	var index application.PortfolioIndexer
	if es := GetES(); es != nil && cfg != nil && cfg.ElasticsearchEnabled {
		index = search.NewPortfolioIndex(es, cfg.ESPortfoliosIndex, log)
	}
	bucket := ""
	if cfg != nil {
		bucket = cfg.GCSBucket
	}

	ownership := application.NewOwnership(r.Users, log)
	return &Services{
		Repos:      r,
		Users:      application.NewUserService(r.Users, helpers.NewBcryptHasher(0), GetJWT(), GetGCS(), bucket, GetRedis(), log),
		Themes:     application.NewThemeService(r.Themes, GetRedis(), log),
		Portfolios: application.NewPortfolioService(r.Portfolios, r.Themes, r.Users, ownership, locks, index, log),
		Messages:   application.NewMessageService(r.Messages, r.Portfolios, log),
		Movies:     application.NewMovieService(r.Movies, log),
		Reviews:    application.NewReviewService(r.Movies, locks, log),
	}
}

var (
	servicesOnce sync.Once
	services     *Services
)

// GetServices builds the process-wide services once, on the backend named by
// STORE_DRIVER.
func GetServices() *Services {
	servicesOnce.Do(func() {
		if cfg != nil && cfg.StoreDriver == config.StoreMemory {
			services = NewServices(MemoryRepositories())
			return
		}
		pool, db := GetPGPool(), GetMongo()
		services = NewServices(Repositories{
			Users:      pginfra.NewUserRepository(pool),
			Themes:     mongodb.NewThemeRepository(db),
			Portfolios: mongodb.NewPortfolioRepository(db),
			Messages:   pginfra.NewMessageRepository(pool),
			Movies:     mongodb.NewMovieRepository(db),
		})
	})
	return services
}
