package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

type MessageRepository struct {
	mu   sync.RWMutex
	msgs map[primitive.ObjectID]entity.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{msgs: make(map[primitive.ObjectID]entity.Message)}
}

func (r *MessageRepository) Create(_ context.Context, m *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	r.msgs[m.ID] = *m
	return nil
}

func (r *MessageRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.msgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *MessageRepository) ListByPortfolio(ctx context.Context, portfolioID primitive.ObjectID) ([]entity.Message, error) {
	return r.ListByPortfolios(ctx, []primitive.ObjectID{portfolioID})
}

// ListByPortfolios returns matches newest first.
func (r *MessageRepository) ListByPortfolios(_ context.Context, ids []primitive.ObjectID) ([]entity.Message, error) {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Message, 0)
	for _, m := range r.msgs {
		if _, ok := set[m.PortfolioID]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (r *MessageRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[id]; !ok {
		return 0, nil
	}
	delete(r.msgs, id)
	return 1, nil
}

func (r *MessageRepository) DeleteByPortfolio(_ context.Context, portfolioID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.msgs {
		if m.PortfolioID == portfolioID {
			delete(r.msgs, id)
			n++
		}
	}
	return n, nil
}
