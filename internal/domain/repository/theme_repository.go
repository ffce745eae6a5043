package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

type ThemeRepository interface {
	Insert(ctx context.Context, t *entity.Theme) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Theme, error)
	// List returns all themes, or only owner's themes when owner is non-nil.
	List(ctx context.Context, owner *primitive.ObjectID) ([]entity.Theme, error)
	ListExamples(ctx context.Context) ([]entity.Theme, error)
	Update(ctx context.Context, id primitive.ObjectID, name string, data entity.ThemeData) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}
