package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

type MovieRepository interface {
	Insert(ctx context.Context, m *entity.Movie) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Movie, error)
	List(ctx context.Context) ([]entity.MovieSummary, error)
	// Update replaces the descriptive fields; reviews and rating are untouched.
	Update(ctx context.Context, id primitive.ObjectID, m entity.Movie) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	// GetByReviewID finds the movie that embeds the review.
	GetByReviewID(ctx context.Context, reviewID primitive.ObjectID) (*entity.Movie, error)
	PushReview(ctx context.Context, movieID primitive.ObjectID, r entity.Review, overall float64) (int64, error)
	PullReview(ctx context.Context, movieID, reviewID primitive.ObjectID, overall float64) (int64, error)
}
