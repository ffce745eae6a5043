package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/validation"
)

// ReviewService maintains a movie's embedded reviews and keeps its overall
// rating equal to the rounded mean of them. Writes are serialized per movie.
type ReviewService struct {
	Movies repo.MovieRepository
	Locks  helpers.Locker
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewReviewService(movies repo.MovieRepository, locks helpers.Locker, logger *logrus.Logger) *ReviewService {
	if locks == nil {
		locks = helpers.NewLocalLocker()
	}
	return &ReviewService{Movies: movies, Locks: locks, Logger: logger, Now: time.Now}
}

func (s *ReviewService) lockMovie(ctx context.Context, id primitive.ObjectID) (func(), error) {
	unlock, err := s.Locks.Lock(ctx, "movie:"+id.Hex())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Movie is busy")
	}
	return unlock, nil
}

// Create appends a review dated today and recomputes the overall rating in
// the same write.
func (s *ReviewService) Create(ctx context.Context, movieID string, in rules.ReviewInput) (*entity.Movie, error) {
	mid, err := validation.ObjectID(movieID, "Movie id")
	if err != nil {
		return nil, err
	}
	r, err := rules.Review(in)
	if err != nil {
		return nil, err
	}
	unlock, err := s.lockMovie(ctx, mid)
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := s.Movies.GetByID(ctx, mid)
	if err != nil {
		return nil, fromRepo(err, "Movie not found")
	}
	r.ID = primitive.NewObjectID()
	r.ReviewDate = s.Now().Format(validation.DateLayout)
	overall := entity.OverallRating(append(append([]entity.Review{}, m.Reviews...), r))

	n, err := s.Movies.PushReview(ctx, mid, r, overall)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add review")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not add review")
	}
	return s.movie(ctx, mid)
}

// List returns the reviews of a movie.
func (s *ReviewService) List(ctx context.Context, movieID string) ([]entity.Review, error) {
	mid, err := validation.ObjectID(movieID, "Movie id")
	if err != nil {
		return nil, err
	}
	m, err := s.movie(ctx, mid)
	if err != nil {
		return nil, err
	}
	return m.Reviews, nil
}

func (s *ReviewService) GetByID(ctx context.Context, reviewID string) (*entity.Review, error) {
	rid, err := validation.ObjectID(reviewID, "Review id")
	if err != nil {
		return nil, err
	}
	m, err := s.Movies.GetByReviewID(ctx, rid)
	if err != nil {
		return nil, fromRepo(err, "Review not found")
	}
	r := m.Review(rid)
	if r == nil {
		return nil, apperror.NotFound("Review not found")
	}
	return r, nil
}

// Remove finds the owning movie, drops the review and recomputes the
// overall rating (0 once no reviews remain).
func (s *ReviewService) Remove(ctx context.Context, reviewID string) (*entity.Movie, error) {
	rid, err := validation.ObjectID(reviewID, "Review id")
	if err != nil {
		return nil, err
	}
	owner, err := s.Movies.GetByReviewID(ctx, rid)
	if err != nil {
		return nil, fromRepo(err, "Review not found")
	}
	unlock, err := s.lockMovie(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// re-read under the lock so the mean reflects concurrent writes
	m, err := s.movie(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if m.Review(rid) == nil {
		return nil, apperror.NotFound("Review not found")
	}
	overall := entity.OverallRating(m.WithoutReview(rid))
	n, err := s.Movies.PullReview(ctx, m.ID, rid, overall)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not remove review")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not remove review")
	}
	return s.movie(ctx, m.ID)
}

func (s *ReviewService) movie(ctx context.Context, id primitive.ObjectID) (*entity.Movie, error) {
	m, err := s.Movies.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Movie not found")
	}
	return m, nil
}
