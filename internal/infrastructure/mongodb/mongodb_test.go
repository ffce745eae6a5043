package mongodb

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := strings.TrimSpace(os.Getenv("PROFOLIO_TEST_MONGO_URI"))
	if uri == "" {
		t.Skip("PROFOLIO_TEST_MONGO_URI is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database("profolio_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestPortfolioRepositoryNestedWrites(t *testing.T) {
	db := testDB(t)
	repo := NewPortfolioRepository(db)
	ctx := context.Background()

	work := &entity.WorkItem{ItemBase: entity.ItemBase{ID: primitive.NewObjectID()}, Company: "Acme", Role: "Dev"}
	first := entity.Section{ID: primitive.NewObjectID(), Type: entity.SectionWork, Items: []entity.Item{work}}
	second := entity.Section{ID: primitive.NewObjectID(), Type: entity.SectionCustom, Items: []entity.Item{}}
	id, err := repo.Insert(ctx, &entity.Portfolio{
		OwnerID:  primitive.NewObjectID(),
		Title:    "Mine",
		Sections: []entity.Section{first, second},
		Layout:   entity.Layout{Pages: []entity.Page{{Title: "Home", SectionIDs: []primitive.ObjectID{first.ID, second.ID}}}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Acme", got.Sections[0].Items[0].(*entity.WorkItem).Company)

	custom := &entity.CustomItem{ItemBase: entity.ItemBase{ID: primitive.NewObjectID()}, Title: "T", Content: "C"}
	n, err := repo.PushItem(ctx, id, second.ID, custom)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// same item id addressed under the wrong section matches nothing
	n, err = repo.SetItem(ctx, id, first.ID, custom)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	custom.Content = "Changed"
	n, err = repo.SetItem(ctx, id, second.ID, custom)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.PullItem(ctx, id, first.ID, work.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.PullSection(ctx, id, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.PullSection(ctx, id, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Changed", got.Sections[0].Items[0].(*entity.CustomItem).Content)

	_, err = repo.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPortfolioRepositoryKeepsUnknownItems(t *testing.T) {
	db := testDB(t)
	repo := NewPortfolioRepository(db)
	ctx := context.Background()

	id := primitive.NewObjectID()
	_, err := db.Collection(portfoliosCollection).InsertOne(ctx, bson.M{
		"_id":     id,
		"ownerId": primitive.NewObjectID(),
		"title":   "Legacy",
		"sections": bson.A{bson.M{
			"_id":   primitive.NewObjectID(),
			"type":  "blog",
			"items": bson.A{bson.M{"_id": primitive.NewObjectID(), "post": "hello"}},
		}},
		"layout": bson.M{"singlePage": true, "pages": bson.A{}},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Sections[0].Items)

	n, err := repo.Update(ctx, id, entity.PortfolioUpdate{Title: "Legacy", Sections: got.Sections, Layout: got.Layout})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var stored struct {
		Sections []struct {
			Type  string     `bson:"type"`
			Items []bson.Raw `bson:"items"`
		} `bson:"sections"`
	}
	require.NoError(t, db.Collection(portfoliosCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&stored))
	require.Len(t, stored.Sections, 1)
	assert.Equal(t, "blog", stored.Sections[0].Type)
	assert.Len(t, stored.Sections[0].Items, 1)
}

func TestMovieRepositoryReviews(t *testing.T) {
	db := testDB(t)
	repo := NewMovieRepository(db)
	ctx := context.Background()

	id, err := repo.Insert(ctx, &entity.Movie{Title: "Heat", Genres: []string{"Crime"}})
	require.NoError(t, err)

	rv := entity.Review{ID: primitive.NewObjectID(), ReviewTitle: "Great", Rating: 4}
	n, err := repo.PushReview(ctx, id, rv, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	owner, err := repo.GetByReviewID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, id, owner.ID)
	assert.Equal(t, 4.0, owner.OverallRating)

	n, err = repo.PullReview(ctx, id, rv.ID, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.MovieSummary{{ID: id, Title: "Heat"}}, list)
}
