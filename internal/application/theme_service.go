package application

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/validation"
)

var exampleThemesKey = helpers.CacheKey("themes", "examples")

type ThemeService struct {
	Repo     repo.ThemeRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
	CacheTTL time.Duration
}

func NewThemeService(r repo.ThemeRepository, rdb *redis.Client, logger *logrus.Logger) *ThemeService {
	return &ThemeService{Repo: r, Redis: rdb, Logger: logger, CacheTTL: 10 * time.Minute}
}

// CreateThemeInput describes a new theme. An empty OwnerID creates a system theme.
type CreateThemeInput struct {
	OwnerID   string
	Name      string
	ThemeData entity.ThemeData
	IsExample bool
}

func (s *ThemeService) Create(ctx context.Context, in CreateThemeInput) (*entity.Theme, error) {
	var owner *primitive.ObjectID
	if strings.TrimSpace(in.OwnerID) != "" {
		id, err := validation.ObjectID(in.OwnerID, "Owner id")
		if err != nil {
			return nil, err
		}
		owner = &id
	}
	name, err := rules.ThemeName(in.Name)
	if err != nil {
		return nil, err
	}
	data, err := rules.ThemeData(in.ThemeData)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &entity.Theme{OwnerID: owner, Name: name, ThemeData: data, IsExample: in.IsExample, CreatedAt: now, UpdatedAt: now}
	id, err := s.Repo.Insert(ctx, t)
	if err != nil {
		logEntry(s.Logger).WithError(err).Error("insert theme failed")
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add theme")
	}
	if in.IsExample {
		s.invalidateExamples(ctx)
	}
	return s.get(ctx, id)
}

func (s *ThemeService) GetByID(ctx context.Context, id string) (*entity.Theme, error) {
	oid, err := validation.ObjectID(id, "Theme id")
	if err != nil {
		return nil, err
	}
	return s.get(ctx, oid)
}

func (s *ThemeService) get(ctx context.Context, id primitive.ObjectID) (*entity.Theme, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Theme not found")
	}
	return t, nil
}

// List returns every theme, or only ownerID's themes when it is non-empty.
func (s *ThemeService) List(ctx context.Context, ownerID string) ([]entity.Theme, error) {
	var owner *primitive.ObjectID
	if strings.TrimSpace(ownerID) != "" {
		id, err := validation.ObjectID(ownerID, "Owner id")
		if err != nil {
			return nil, err
		}
		owner = &id
	}
	out, err := s.Repo.List(ctx, owner)
	if err != nil {
		return nil, fromRepo(err, "Theme not found")
	}
	return out, nil
}

// ListExamples serves the immutable example themes, cached in Redis when available.
func (s *ThemeService) ListExamples(ctx context.Context) ([]entity.Theme, error) {
	if s.Redis != nil {
		var cached []entity.Theme
		ok, err := helpers.CacheGetJSON(ctx, s.Redis, exampleThemesKey, &cached)
		if err != nil {
			logEntry(s.Logger).WithError(err).Warn("example themes cache read failed")
		} else if ok {
			return cached, nil
		}
	}
	out, err := s.Repo.ListExamples(ctx)
	if err != nil {
		return nil, fromRepo(err, "Theme not found")
	}
	if s.Redis != nil {
		if err := helpers.CacheSetJSON(ctx, s.Redis, exampleThemesKey, out, s.CacheTTL); err != nil {
			logEntry(s.Logger).WithError(err).Warn("example themes cache write failed")
		}
	}
	return out, nil
}

// ListAvailable returns the example themes followed by userID's own themes.
func (s *ThemeService) ListAvailable(ctx context.Context, userID string) ([]entity.Theme, error) {
	examples, err := s.ListExamples(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return examples, nil
	}
	own, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append(examples, own...), nil
}

func (s *ThemeService) Update(ctx context.Context, id, name string, data entity.ThemeData) (*entity.Theme, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsExample {
		return nil, apperror.Conflict("Cannot update example themes")
	}
	if name, err = rules.ThemeName(name); err != nil {
		return nil, err
	}
	if data, err = rules.ThemeData(data); err != nil {
		return nil, err
	}
	n, err := s.Repo.Update(ctx, existing.ID, name, data)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update theme")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not update theme")
	}
	return s.get(ctx, existing.ID)
}

func (s *ThemeService) Remove(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsExample {
		return apperror.Conflict("Cannot delete example themes")
	}
	n, err := s.Repo.Delete(ctx, existing.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not delete theme")
	}
	if n == 0 {
		return apperror.Persistence("Could not delete theme")
	}
	return nil
}

// Clone copies a theme's colors to a new, non-example theme owned by newOwnerID.
// An empty newName yields "<source name> (Copy)".
func (s *ThemeService) Clone(ctx context.Context, id, newOwnerID, newName string) (*entity.Theme, error) {
	src, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name := newName
	if strings.TrimSpace(name) == "" {
		name = src.Name + " (Copy)"
	}
	return s.Create(ctx, CreateThemeInput{OwnerID: newOwnerID, Name: name, ThemeData: src.ThemeData})
}

func (s *ThemeService) invalidateExamples(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.CacheDel(ctx, s.Redis, exampleThemesKey); err != nil {
		logEntry(s.Logger).WithError(err).Warn("example themes cache invalidation failed")
	}
}
