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

// PortfolioRepository mirrors the document store semantics: sections and
// items are addressed by id and every mutator reports modified documents.
type PortfolioRepository struct {
	mu   sync.RWMutex
	docs map[primitive.ObjectID]entity.Portfolio
}

func NewPortfolioRepository() *PortfolioRepository {
	return &PortfolioRepository{docs: make(map[primitive.ObjectID]entity.Portfolio)}
}

func (r *PortfolioRepository) Insert(_ context.Context, p *entity.Portfolio) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := p.Copy()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.docs[c.ID] = c
	return c.ID, nil
}

func (r *PortfolioRepository) GetByID(_ context.Context, id primitive.ObjectID) (*entity.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := p.Copy()
	return &c, nil
}

func (r *PortfolioRepository) list(match func(entity.Portfolio) bool) []entity.Portfolio {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Portfolio, 0)
	for _, p := range r.docs {
		if match(p) {
			out = append(out, p.Copy())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r *PortfolioRepository) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]entity.Portfolio, error) {
	return r.list(func(p entity.Portfolio) bool { return p.OwnerID == owner }), nil
}

func (r *PortfolioRepository) ListExamples(_ context.Context) ([]entity.Portfolio, error) {
	return r.list(func(p entity.Portfolio) bool { return p.IsExample }), nil
}

// mutate runs fn on a copy of the document and stores it when fn reports a change.
func (r *PortfolioRepository) mutate(id primitive.ObjectID, fn func(*entity.Portfolio) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[id]
	if !ok {
		return 0
	}
	c := p.Copy()
	if !fn(&c) {
		return 0
	}
	c.UpdatedAt = time.Now().UTC()
	r.docs[id] = c
	return 1
}

func (r *PortfolioRepository) Update(_ context.Context, id primitive.ObjectID, upd entity.PortfolioUpdate) (int64, error) {
	next := entity.Portfolio{Sections: upd.Sections, Layout: upd.Layout, ContactEmail: upd.ContactEmail}.Copy()
	return r.mutate(id, func(p *entity.Portfolio) bool {
		p.Title = upd.Title
		p.Description = upd.Description
		p.Sections = next.Sections
		p.Layout = next.Layout
		p.ThemeID = upd.ThemeID
		p.ContactButtonEnabled = upd.ContactButtonEnabled
		p.ContactEmail = next.ContactEmail
		return true
	}), nil
}

func (r *PortfolioRepository) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return 0, nil
	}
	delete(r.docs, id)
	return 1, nil
}

func (r *PortfolioRepository) PushSection(_ context.Context, id primitive.ObjectID, s entity.Section) (int64, error) {
	s = s.Copy()
	return r.mutate(id, func(p *entity.Portfolio) bool {
		p.Sections = append(p.Sections, s)
		return true
	}), nil
}

func (r *PortfolioRepository) PullSection(_ context.Context, id, sectionID primitive.ObjectID) (int64, error) {
	return r.mutate(id, func(p *entity.Portfolio) bool {
		for i := range p.Sections {
			if p.Sections[i].ID == sectionID {
				p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
				return true
			}
		}
		return false
	}), nil
}

func (r *PortfolioRepository) SetPages(_ context.Context, id primitive.ObjectID, pages []entity.Page) (int64, error) {
	next := entity.Layout{Pages: pages}.Copy().Pages
	return r.mutate(id, func(p *entity.Portfolio) bool {
		p.Layout.Pages = next
		return true
	}), nil
}

func (r *PortfolioRepository) PushItem(_ context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error) {
	it = entity.CopyItem(it)
	return r.mutate(id, func(p *entity.Portfolio) bool {
		s := p.Section(sectionID)
		if s == nil {
			return false
		}
		s.Items = append(s.Items, it)
		return true
	}), nil
}

func (r *PortfolioRepository) SetItem(_ context.Context, id, sectionID primitive.ObjectID, it entity.Item) (int64, error) {
	it = entity.CopyItem(it)
	return r.mutate(id, func(p *entity.Portfolio) bool {
		s := p.Section(sectionID)
		if s == nil {
			return false
		}
		i := s.ItemIndex(it.Base().ID)
		if i < 0 {
			return false
		}
		s.Items[i] = it
		return true
	}), nil
}

func (r *PortfolioRepository) PullItem(_ context.Context, id, sectionID, itemID primitive.ObjectID) (int64, error) {
	return r.mutate(id, func(p *entity.Portfolio) bool {
		s := p.Section(sectionID)
		if s == nil {
			return false
		}
		i := s.ItemIndex(itemID)
		if i < 0 {
			return false
		}
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		return true
	}), nil
}
