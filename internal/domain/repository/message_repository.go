package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Message, error)
	ListByPortfolio(ctx context.Context, portfolioID primitive.ObjectID) ([]entity.Message, error)
	// ListByPortfolios returns messages whose portfolio is any of ids.
	ListByPortfolios(ctx context.Context, ids []primitive.ObjectID) ([]entity.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteByPortfolio(ctx context.Context, portfolioID primitive.ObjectID) (int64, error)
}
