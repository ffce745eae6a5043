package application

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

type MovieService struct {
	Repo   repo.MovieRepository
	Logger *logrus.Logger
}

func NewMovieService(r repo.MovieRepository, logger *logrus.Logger) *MovieService {
	return &MovieService{Repo: r, Logger: logger}
}

// Create stores a movie with no reviews and an overall rating of 0.
func (s *MovieService) Create(ctx context.Context, in rules.MovieInput) (*entity.Movie, error) {
	m, err := rules.Movie(in)
	if err != nil {
		return nil, err
	}
	m.Reviews = []entity.Review{}
	id, err := s.Repo.Insert(ctx, &m)
	if err != nil {
		logEntry(s.Logger).WithError(err).Error("insert movie failed")
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add movie")
	}
	return s.get(ctx, id)
}

func (s *MovieService) List(ctx context.Context) ([]entity.MovieSummary, error) {
	out, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fromRepo(err, "Movie not found")
	}
	return out, nil
}

func (s *MovieService) GetByID(ctx context.Context, id string) (*entity.Movie, error) {
	oid, err := validation.ObjectID(id, "Movie id")
	if err != nil {
		return nil, err
	}
	return s.get(ctx, oid)
}

func (s *MovieService) get(ctx context.Context, id primitive.ObjectID) (*entity.Movie, error) {
	m, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Movie not found")
	}
	return m, nil
}

// Update replaces the descriptive fields and keeps reviews intact.
func (s *MovieService) Update(ctx context.Context, id string, in rules.MovieInput) (*entity.Movie, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := rules.Movie(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.Update(ctx, existing.ID, m); err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update movie")
	}
	return s.get(ctx, existing.ID)
}

// Remove deletes the movie together with its embedded reviews and returns
// what was deleted.
func (s *MovieService) Remove(ctx context.Context, id string) (*entity.Movie, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := s.Repo.Delete(ctx, existing.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not delete movie")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not delete movie")
	}
	return existing, nil
}
