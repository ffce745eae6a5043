package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
)

// PortfolioRepository persists portfolio documents. Mutators return the
// number of modified documents; embedded sections and items are addressed by
// their identifiers, never by position.
type PortfolioRepository interface {
	Insert(ctx context.Context, p *entity.Portfolio) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Portfolio, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]entity.Portfolio, error)
	ListExamples(ctx context.Context) ([]entity.Portfolio, error)
	Update(ctx context.Context, id primitive.ObjectID, upd entity.PortfolioUpdate) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)

	PushSection(ctx context.Context, id primitive.ObjectID, s entity.Section) (int64, error)
	PullSection(ctx context.Context, id, sectionID primitive.ObjectID) (int64, error)
	SetPages(ctx context.Context, id primitive.ObjectID, pages []entity.Page) (int64, error)

	PushItem(ctx context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error)
	SetItem(ctx context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error)
	PullItem(ctx context.Context, id, sectionID, itemID primitive.ObjectID) (int64, error)
}
