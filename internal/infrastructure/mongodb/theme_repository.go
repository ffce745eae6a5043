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

type ThemeRepository struct {
	coll *mongo.Collection
}

func NewThemeRepository(db *mongo.Database) *ThemeRepository {
	return &ThemeRepository{coll: db.Collection(themesCollection)}
}

func (r *ThemeRepository) Insert(ctx context.Context, t *entity.Theme) (primitive.ObjectID, error) {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return primitive.NilObjectID, err
	}
	return t.ID, nil
}

func (r *ThemeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Theme, error) {
	var t entity.Theme
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, notFoundOr(err)
	}
	return &t, nil
}

func (r *ThemeRepository) find(ctx context.Context, filter bson.M) ([]entity.Theme, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.Theme](ctx, cur)
}

func (r *ThemeRepository) List(ctx context.Context, owner *primitive.ObjectID) ([]entity.Theme, error) {
	filter := bson.M{}
	if owner != nil {
		filter["ownerId"] = *owner
	}
	return r.find(ctx, filter)
}

func (r *ThemeRepository) ListExamples(ctx context.Context) ([]entity.Theme, error) {
	return r.find(ctx, bson.M{"isExample": true})
}

func (r *ThemeRepository) Update(ctx context.Context, id primitive.ObjectID, name string, data entity.ThemeData) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":      name,
		"themeData": data,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *ThemeRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ repository.ThemeRepository = (*ThemeRepository)(nil)
