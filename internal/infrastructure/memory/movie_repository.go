package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

type MovieRepository struct {
	mu     sync.RWMutex
	movies map[primitive.ObjectID]entity.Movie
}

func NewMovieRepository() *MovieRepository {
	return &MovieRepository{movies: make(map[primitive.ObjectID]entity.Movie)}
}

func cloneMovie(m entity.Movie) entity.Movie {
	m.Genres = append([]string{}, m.Genres...)
	m.CastMembers = append([]string{}, m.CastMembers...)
	m.Reviews = append([]entity.Review{}, m.Reviews...)
	return m
}

func (r *MovieRepository) Insert(_ context.Context, m *entity.Movie) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneMovie(*m)
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.movies[c.ID] = c
	return c.ID, nil
}

func (r *MovieRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneMovie(m)
	return &c, nil
}

func (r *MovieRepository) List(_ context.Context) ([]entity.MovieSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.MovieSummary, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, entity.MovieSummary{ID: m.ID, Title: m.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *MovieRepository) Update(_ context.Context, id primitive.ObjectID, m entity.Movie) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.movies[id]
	if !ok {
		return 0, nil
	}
	next := cloneMovie(m)
	next.ID, next.Reviews, next.OverallRating = id, cur.Reviews, cur.OverallRating
	r.movies[id] = next
	return 1, nil
}

func (r *MovieRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return 0, nil
	}
	delete(r.movies, id)
	return 1, nil
}

func (r *MovieRepository) GetByReviewID(_ context.Context, reviewID primitive.ObjectID) (*entity.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.movies {
		if m.Review(reviewID) != nil {
			c := cloneMovie(m)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MovieRepository) PushReview(_ context.Context, movieID primitive.ObjectID, rv entity.Review, overall float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[movieID]
	if !ok {
		return 0, nil
	}
	m = cloneMovie(m)
	m.Reviews = append(m.Reviews, rv)
	m.OverallRating = overall
	r.movies[movieID] = m
	return 1, nil
}

func (r *MovieRepository) PullReview(_ context.Context, movieID, reviewID primitive.ObjectID, overall float64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[movieID]
	if !ok || m.Review(reviewID) == nil {
		return 0, nil
	}
	m.Reviews = m.WithoutReview(reviewID)
	m.OverallRating = overall
	r.movies[movieID] = m
	return 1, nil
}
