package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/internal/domain/repository"
)

type ThemeRepository struct {
	mu     sync.RWMutex
	themes map[primitive.ObjectID]entity.Theme
}

func NewThemeRepository() *ThemeRepository {
	return &ThemeRepository{themes: make(map[primitive.ObjectID]entity.Theme)}
}

func cloneTheme(t entity.Theme) entity.Theme {
	if t.OwnerID != nil {
		id := *t.OwnerID
		t.OwnerID = &id
	}
	return t
}

func (r *ThemeRepository) Insert(_ context.Context, t *entity.Theme) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := cloneTheme(*t)
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.themes[c.ID] = c
	return c.ID, nil
}

func (r *ThemeRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := cloneTheme(t)
	return &c, nil
}

func (r *ThemeRepository) list(match func(entity.Theme) bool) []entity.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Theme, 0)
	for _, t := range r.themes {
		if match(t) {
			out = append(out, cloneTheme(t))
		}
	}
	// ObjectIDs grow with insertion time, matching natural store order
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r *ThemeRepository) List(_ context.Context, owner *primitive.ObjectID) ([]entity.Theme, error) {
	return r.list(func(t entity.Theme) bool {
		return owner == nil || (t.OwnerID != nil && *t.OwnerID == *owner)
	}), nil
}

func (r *ThemeRepository) ListExamples(_ context.Context) ([]entity.Theme, error) {
	return r.list(func(t entity.Theme) bool { return t.IsExample }), nil
}

func (r *ThemeRepository) Update(_ context.Context, id primitive.ObjectID, name string, data entity.ThemeData) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.themes[id]
	if !ok {
		return 0, nil
	}
	t.Name, t.ThemeData, t.UpdatedAt = name, data, time.Now().UTC()
	r.themes[id] = t
	return 1, nil
}

func (r *ThemeRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.themes[id]; !ok {
		return 0, nil
	}
	delete(r.themes, id)
	return 1, nil
}
