package postgres

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv("PROFOLIO_TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("PROFOLIO_TEST_DATABASE_URL is not set")
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	require.NoError(t, Migrate(dsn, filepath.Join("..", "..", "..", "db", "migrations"), logger))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := NewPool(ctx, dsn, "profolio-test", 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE users, messages`)
	require.NoError(t, err)
	return pool
}

func newUser(name string) *entity.User {
	return &entity.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
}

func TestUserRepository(t *testing.T) {
	pool := testPool(t)
	repo := NewUserRepository(pool)
	ctx := context.Background()

	u := newUser("jane")
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.ID.IsZero())

	dup := newUser("jane")
	dup.Email = "other@example.com"
	var dupErr *repository.DuplicateError
	require.ErrorAs(t, repo.Create(ctx, dup), &dupErr)
	assert.Equal(t, "username", dupErr.Field)

	dup = newUser("janet")
	dup.Email = u.Email
	require.ErrorAs(t, repo.Create(ctx, dup), &dupErr)
	assert.Equal(t, "email", dupErr.Field)

	got, err := repo.GetByLogin(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Nil(t, got.ActivePortfolioID)

	_, err = repo.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	n, err := repo.SetActivePortfolioIfUnset(ctx, u.ID, first)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.SetActivePortfolioIfUnset(ctx, u.ID, second)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repo.ClearActivePortfolio(ctx, first)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ActivePortfolioID)

	n, err = repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMessageRepository(t *testing.T) {
	pool := testPool(t)
	repo := NewMessageRepository(pool)
	ctx := context.Background()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, pid := range []primitive.ObjectID{a, a, b} {
		require.NoError(t, repo.Create(ctx, &entity.Message{
			PortfolioID: pid,
			SenderName:  "Sam",
			SenderEmail: "sam@example.com",
			Message:     "Hello there friend",
			SentAt:      now.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := repo.ListByPortfolios(ctx, []primitive.ObjectID{a, b})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, b, list[0].PortfolioID)

	n, err := repo.DeleteByPortfolio(ctx, a)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	list, err = repo.ListByPortfolio(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, list)
}
