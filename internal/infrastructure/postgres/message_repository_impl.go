package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

const messageColumns = `id, portfolio_id, sender_name, sender_email, message, sent_at`

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO messages (id, portfolio_id, sender_name, sender_email, message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, m.ID.Hex(), m.PortfolioID.Hex(), m.SenderName, m.SenderEmail, m.Message, m.SentAt)
	return err
}

func scanMessage(row pgx.Row) (*entity.Message, error) {
	var (
		m       entity.Message
		id, pid string
	)
	if err := row.Scan(&id, &pid, &m.SenderName, &m.SenderEmail, &m.Message, &m.SentAt); err != nil {
		return nil, err
	}
	var err error
	if m.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	if m.PortfolioID, err = primitive.ObjectIDFromHex(pid); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Message, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id.Hex())
	m, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MessageRepository) ListByPortfolio(ctx context.Context, portfolioID primitive.ObjectID) ([]entity.Message, error) {
	return r.ListByPortfolios(ctx, []primitive.ObjectID{portfolioID})
}

// ListByPortfolios returns matches newest first.
func (r *MessageRepository) ListByPortfolios(ctx context.Context, ids []primitive.ObjectID) ([]entity.Message, error) {
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE portfolio_id = ANY($1)
		ORDER BY sent_at DESC, id DESC
	`, hexes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id.Hex())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

func (r *MessageRepository) DeleteByPortfolio(ctx context.Context, portfolioID primitive.ObjectID) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE portfolio_id = $1`, portfolioID.Hex())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
