package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, profile_picture_id, active_portfolio_id, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, u.ID.Hex(), u.Username, u.Email, u.PasswordHash)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return duplicateOr(err)
	}
	return nil
}

// duplicateOr turns a unique violation into a repository.DuplicateError
// naming the column.
func duplicateOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		field := "username"
		if pgErr.ConstraintName == "users_email_key" {
			field = "email"
		}
		return &repository.DuplicateError{Field: field, Err: err}
	}
	return err
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u               entity.User
		id              string
		picture, active *string
	)
	if err := row.Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &picture, &active,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if u.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	if u.ProfilePictureID, err = optionalID(picture); err != nil {
		return nil, err
	}
	if u.ActivePortfolioID, err = optionalID(active); err != nil {
		return nil, err
	}
	return &u, nil
}

func optionalID(s *string) (*primitive.ObjectID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.getOne(ctx, `id = $1`, id.Hex())
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.getOne(ctx, `username = $1 OR email = $1 LIMIT 1`, login)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *UserRepository) UpdateProfilePicture(ctx context.Context, id, pictureID primitive.ObjectID) (int64, error) {
	return r.exec(ctx, `
		UPDATE users SET profile_picture_id = $1, updated_at = NOW()
		WHERE id = $2
	`, pictureID.Hex(), id.Hex())
}

func (r *UserRepository) SetActivePortfolio(ctx context.Context, id, portfolioID primitive.ObjectID) (int64, error) {
	return r.exec(ctx, `
		UPDATE users SET active_portfolio_id = $1, updated_at = NOW()
		WHERE id = $2
	`, portfolioID.Hex(), id.Hex())
}

func (r *UserRepository) SetActivePortfolioIfUnset(ctx context.Context, id, portfolioID primitive.ObjectID) (int64, error) {
	return r.exec(ctx, `
		UPDATE users SET active_portfolio_id = $1, updated_at = NOW()
		WHERE id = $2 AND active_portfolio_id IS NULL
	`, portfolioID.Hex(), id.Hex())
}

func (r *UserRepository) ClearActivePortfolio(ctx context.Context, portfolioID primitive.ObjectID) (int64, error) {
	return r.exec(ctx, `
		UPDATE users SET active_portfolio_id = NULL, updated_at = NOW()
		WHERE active_portfolio_id = $1
	`, portfolioID.Hex())
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id.Hex())
}

var _ repository.UserRepository = (*UserRepository)(nil)
