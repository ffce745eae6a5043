package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

type MovieRepository struct {
	coll *mongo.Collection
}

func NewMovieRepository(db *mongo.Database) *MovieRepository {
	return &MovieRepository{coll: db.Collection(moviesCollection)}
}

func (r *MovieRepository) Insert(ctx context.Context, m *entity.Movie) (primitive.ObjectID, error) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.Reviews == nil {
		m.Reviews = []entity.Review{}
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Movie, error) {
	var m entity.Movie
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, notFoundOr(err)
	}
	return &m, nil
}

func (r *MovieRepository) List(ctx context.Context) ([]entity.MovieSummary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "title": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[entity.MovieSummary](ctx, cur)
}

func (r *MovieRepository) Update(ctx context.Context, id primitive.ObjectID, m entity.Movie) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":        m.Title,
		"plot":         m.Plot,
		"genres":       m.Genres,
		"rating":       m.Rating,
		"studio":       m.Studio,
		"director":     m.Director,
		"castMembers":  m.CastMembers,
		"dateReleased": m.DateReleased,
		"runtime":      m.Runtime,
	}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MovieRepository) GetByReviewID(ctx context.Context, reviewID primitive.ObjectID) (*entity.Movie, error) {
	var m entity.Movie
	if err := r.coll.FindOne(ctx, bson.M{"reviews._id": reviewID}).Decode(&m); err != nil {
		return nil, notFoundOr(err)
	}
	return &m, nil
}

func (r *MovieRepository) PushReview(ctx context.Context, movieID primitive.ObjectID, rv entity.Review, overall float64) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": movieID}, bson.M{
		"$push": bson.M{"reviews": rv},
		"$set":  bson.M{"overallRating": overall},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MovieRepository) PullReview(ctx context.Context, movieID, reviewID primitive.ObjectID, overall float64) (int64, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": movieID, "reviews._id": reviewID}, bson.M{
		"$pull": bson.M{"reviews": bson.M{"_id": reviewID}},
		"$set":  bson.M{"overallRating": overall},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

var _ repository.MovieRepository = (*MovieRepository)(nil)
