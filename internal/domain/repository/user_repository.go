package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

// UserRepository defines the persistence operations for users.
// Update methods return the number of affected rows.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByLogin matches either the username or the email.
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	UpdateProfilePicture(ctx context.Context, id, pictureID primitive.ObjectID) (int64, error)
	SetActivePortfolio(ctx context.Context, id, portfolioID primitive.ObjectID) (int64, error)
	// SetActivePortfolioIfUnset only writes when the user has no active portfolio.
	SetActivePortfolioIfUnset(ctx context.Context, id, portfolioID primitive.ObjectID) (int64, error)
	// ClearActivePortfolio nulls the pointer on every user that references portfolioID.
	ClearActivePortfolio(ctx context.Context, portfolioID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}
