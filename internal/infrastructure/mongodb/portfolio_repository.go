package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

// PortfolioRepository stores each portfolio as one document with sections
// and items embedded. Nested writes use array filters keyed by _id so no
// write depends on an array position read earlier.
type PortfolioRepository struct {
	coll *mongo.Collection
}

func NewPortfolioRepository(db *mongo.Database) *PortfolioRepository {
	return &PortfolioRepository{coll: db.Collection(portfoliosCollection)}
}

func (r *PortfolioRepository) Insert(ctx context.Context, p *entity.Portfolio) (primitive.ObjectID, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, err
	}
	return p.ID, nil
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Portfolio, error) {
	var p entity.Portfolio
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFoundOr(err)
	}
	return &p, nil
}

func (r *PortfolioRepository) find(ctx context.Context, filter bson.M) ([]entity.Portfolio, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.Portfolio](ctx, cur)
}

func (r *PortfolioRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]entity.Portfolio, error) {
	return r.find(ctx, bson.M{"ownerId": owner})
}

func (r *PortfolioRepository) ListExamples(ctx context.Context) ([]entity.Portfolio, error) {
	return r.find(ctx, bson.M{"isExample": true})
}

func (r *PortfolioRepository) update(ctx context.Context, filter, update bson.M, opts ...*options.UpdateOptions) (int64, error) {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	if _, ok := set["updatedAt"]; !ok {
		set["updatedAt"] = time.Now().UTC()
	}
	res, err := r.coll.UpdateOne(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *PortfolioRepository) Update(ctx context.Context, id primitive.ObjectID, upd entity.PortfolioUpdate) (int64, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":                upd.Title,
		"description":          upd.Description,
		"sections":             upd.Sections,
		"layout":               upd.Layout,
		"themeId":              upd.ThemeID,
		"contactButtonEnabled": upd.ContactButtonEnabled,
		"contactEmail":         upd.ContactEmail,
		"updatedAt":            upd.UpdatedAt,
	}})
}

func (r *PortfolioRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *PortfolioRepository) PushSection(ctx context.Context, id primitive.ObjectID, s entity.Section) (int64, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"sections": s}})
}

func (r *PortfolioRepository) PullSection(ctx context.Context, id, sectionID primitive.ObjectID) (int64, error) {
	return r.update(ctx,
		bson.M{"_id": id, "sections._id": sectionID},
		bson.M{"$pull": bson.M{"sections": bson.M{"_id": sectionID}}},
	)
}

func (r *PortfolioRepository) SetPages(ctx context.Context, id primitive.ObjectID, pages []entity.Page) (int64, error) {
	if pages == nil {
		pages = []entity.Page{}
	}
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"layout.pages": pages}})
}

func sectionFilter(sectionID primitive.ObjectID, more ...any) *options.UpdateOptions {
	filters := append([]any{bson.M{"s._id": sectionID}}, more...)
	return options.Update().SetArrayFilters(options.ArrayFilters{Filters: filters})
}

func (r *PortfolioRepository) PushItem(ctx context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error) {
	return r.update(ctx,
		bson.M{"_id": id, "sections._id": sectionID},
		bson.M{"$push": bson.M{"sections.$[s].items": it}},
		sectionFilter(sectionID),
	)
}

func (r *PortfolioRepository) SetItem(ctx context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error) {
	itemID := it.Base().ID
	return r.update(ctx,
		bson.M{"_id": id, "sections": bson.M{"$elemMatch": bson.M{"_id": sectionID, "items._id": itemID}}},
		bson.M{"$set": bson.M{"sections.$[s].items.$[i]": it}},
		sectionFilter(sectionID, bson.M{"i._id": itemID}),
	)
}

func (r *PortfolioRepository) PullItem(ctx context.Context, id, sectionID, itemID primitive.ObjectID) (int64, error) {
	return r.update(ctx,
		bson.M{"_id": id, "sections": bson.M{"$elemMatch": bson.M{"_id": sectionID, "items._id": itemID}}},
		bson.M{"$pull": bson.M{"sections.$[s].items": bson.M{"_id": itemID}}},
		sectionFilter(sectionID),
	)
}

var _ repository.PortfolioRepository = (*PortfolioRepository)(nil)
