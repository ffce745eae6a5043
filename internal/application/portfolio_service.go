package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	repo "github.com/oksasatya/profolio/internal/domain/repository"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/helpers"
	"github.com/oksasatya/profolio/pkg/validation"
)

// PortfolioService owns the portfolio document lifecycle. Every mutation of
// an existing portfolio runs under a per-portfolio lock.
type PortfolioService struct {
	Repo      repo.PortfolioRepository
	Themes    repo.ThemeRepository
	Users     repo.UserRepository
	Ownership *Ownership
	Locks     helpers.Locker
	Index     PortfolioIndexer
	Logger    *logrus.Logger
}

func NewPortfolioService(r repo.PortfolioRepository, themes repo.ThemeRepository, users repo.UserRepository, ownership *Ownership, locks helpers.Locker, index PortfolioIndexer, logger *logrus.Logger) *PortfolioService {
	if locks == nil {
		locks = helpers.NewLocalLocker()
	}
	return &PortfolioService{Repo: r, Themes: themes, Users: users, Ownership: ownership, Locks: locks, Index: index, Logger: logger}
}

// CreatePortfolioInput is a new portfolio as received from a client.
// A nil Layout means single page; a nil ContactButtonEnabled means false.
type CreatePortfolioInput struct {
	OwnerID               string
	Title                 string
	Description           string
	Sections              []rules.SectionInput
	Layout                *rules.LayoutInput
	ThemeID               string
	ContactButtonEnabled  *bool
	ContactEmail          string
	IsExample             bool
	CopiedFromPortfolioID string
}

// UpdatePortfolioInput replaces every editable field of a portfolio.
type UpdatePortfolioInput struct {
	Title                string
	Description          string
	Sections             []rules.SectionInput
	Layout               *rules.LayoutInput
	ThemeID              string
	ContactButtonEnabled *bool
	ContactEmail         string
}

type validatedContent struct {
	title, description string
	sections           []entity.Section
	layout             entity.Layout
	themeID            primitive.ObjectID
	contactEnabled     bool
	contactEmail       *string
}

func (s *PortfolioService) validateContent(ctx context.Context, ownerID primitive.ObjectID, title, description string, sections []rules.SectionInput, layout *rules.LayoutInput, themeID string, contact *bool, contactEmail string) (validatedContent, error) {
	var (
		v   validatedContent
		err error
	)
	if v.title, err = rules.PortfolioTitle(title); err != nil {
		return v, err
	}
	if v.description, err = rules.PortfolioDescription(description); err != nil {
		return v, err
	}
	if v.themeID, err = validation.ObjectID(themeID, "Theme id"); err != nil {
		return v, err
	}
	if contact != nil {
		if v.contactEnabled, err = validation.Bool(contact, "Contact button enabled"); err != nil {
			return v, err
		}
	}
	if v.contactEmail, err = s.resolveContactEmail(ctx, ownerID, v.contactEnabled, contactEmail); err != nil {
		return v, err
	}
	if _, err := s.Themes.GetByID(ctx, v.themeID); err != nil {
		return v, fromRepo(err, "Theme not found")
	}
	if v.sections, err = rules.Sections(sections); err != nil {
		return v, err
	}
	if v.layout, err = rules.Layout(layout); err != nil {
		return v, err
	}
	v.layout = v.layout.Prune(v.sections)
	return v, nil
}

// resolveContactEmail validates an explicit address, or falls back to the
// owner's email when contact is enabled without one.
func (s *PortfolioService) resolveContactEmail(ctx context.Context, ownerID primitive.ObjectID, enabled bool, email string) (*string, error) {
	if strings.TrimSpace(email) != "" {
		e, err := validation.Email(email, "Contact email")
		if err != nil {
			return nil, err
		}
		return &e, nil
	}
	if !enabled {
		return nil, nil
	}
	owner, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fromRepo(err, "Owner not found")
	}
	e := owner.Email
	return &e, nil
}

func (s *PortfolioService) Create(ctx context.Context, in CreatePortfolioInput) (*entity.Portfolio, error) {
	ownerID, err := validation.ObjectID(in.OwnerID, "Owner id")
	if err != nil {
		return nil, err
	}
	v, err := s.validateContent(ctx, ownerID, in.Title, in.Description, in.Sections, in.Layout, in.ThemeID, in.ContactButtonEnabled, in.ContactEmail)
	if err != nil {
		return nil, err
	}
	var copiedFrom *primitive.ObjectID
	if strings.TrimSpace(in.CopiedFromPortfolioID) != "" {
		src, err := validation.ObjectID(in.CopiedFromPortfolioID, "Source portfolio id")
		if err != nil {
			return nil, err
		}
		if _, err := s.Repo.GetByID(ctx, src); err != nil {
			return nil, fromRepo(err, "Source portfolio not found")
		}
		copiedFrom = &src
	}

	now := time.Now().UTC()
	p := &entity.Portfolio{
		OwnerID:               ownerID,
		Title:                 v.title,
		Description:           v.description,
		Sections:              v.sections,
		Layout:                v.layout,
		ThemeID:               v.themeID,
		ContactButtonEnabled:  v.contactEnabled,
		ContactEmail:          v.contactEmail,
		IsExample:             in.IsExample,
		CopiedFromPortfolioID: copiedFrom,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	id, err := s.Repo.Insert(ctx, p)
	if err != nil {
		logEntry(s.Logger).WithError(err).WithField("owner_id", ownerID.Hex()).Error("insert portfolio failed")
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add portfolio")
	}
	if err := s.Ownership.PortfolioCreated(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

func (s *PortfolioService) GetByID(ctx context.Context, id string) (*entity.Portfolio, error) {
	oid, err := validation.ObjectID(id, "Portfolio id")
	if err != nil {
		return nil, err
	}
	return s.get(ctx, oid)
}

func (s *PortfolioService) get(ctx context.Context, id primitive.ObjectID) (*entity.Portfolio, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Portfolio not found")
	}
	return p, nil
}

// reload re-reads the stored document and refreshes the search index.
func (s *PortfolioService) reload(ctx context.Context, id primitive.ObjectID) (*entity.Portfolio, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PortfolioService) ListByOwner(ctx context.Context, ownerID string) ([]entity.Portfolio, error) {
	oid, err := validation.ObjectID(ownerID, "Owner id")
	if err != nil {
		return nil, err
	}
	out, err := s.Repo.ListByOwner(ctx, oid)
	if err != nil {
		return nil, fromRepo(err, "Portfolio not found")
	}
	return out, nil
}

func (s *PortfolioService) ListExamples(ctx context.Context) ([]entity.Portfolio, error) {
	out, err := s.Repo.ListExamples(ctx)
	if err != nil {
		return nil, fromRepo(err, "Portfolio not found")
	}
	return out, nil
}

// Search queries the portfolio index; without an index it returns nothing.
func (s *PortfolioService) Search(ctx context.Context, q string, size int) ([]PortfolioHit, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []PortfolioHit{}, nil
	}
	hits, err := s.Index.SearchPortfolios(ctx, q, size)
	if err != nil {
		logEntry(s.Logger).WithError(err).Warn("portfolio search failed")
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Search is unavailable")
	}
	return hits, nil
}

// lockMutable locks the portfolio and loads it, rejecting example portfolios.
func (s *PortfolioService) lockMutable(ctx context.Context, id string) (*entity.Portfolio, func(), error) {
	oid, err := validation.ObjectID(id, "Portfolio id")
	if err != nil {
		return nil, nil, err
	}
	unlock, err := s.Locks.Lock(ctx, "portfolio:"+oid.Hex())
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.KindPersistence, "Portfolio is busy")
	}
	p, err := s.get(ctx, oid)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	if p.IsExample {
		unlock()
		return nil, nil, apperror.Conflict("Cannot update example portfolios")
	}
	return p, unlock, nil
}

func (s *PortfolioService) Update(ctx context.Context, id string, in UpdatePortfolioInput) (*entity.Portfolio, error) {
	if in.ContactButtonEnabled == nil {
		return nil, apperror.Validation("Contact button enabled must be provided")
	}
	p, unlock, err := s.lockMutable(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	v, err := s.validateContent(ctx, p.OwnerID, in.Title, in.Description, in.Sections, in.Layout, in.ThemeID, in.ContactButtonEnabled, in.ContactEmail)
	if err != nil {
		return nil, err
	}
	n, err := s.Repo.Update(ctx, p.ID, entity.PortfolioUpdate{
		Title:                v.title,
		Description:          v.description,
		Sections:             v.sections,
		Layout:               v.layout,
		ThemeID:              v.themeID,
		ContactButtonEnabled: v.contactEnabled,
		ContactEmail:         v.contactEmail,
		UpdatedAt:            time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update portfolio")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not update portfolio")
	}
	return s.reload(ctx, p.ID)
}

// Remove deletes a non-example portfolio and clears active pointers to it.
// Messages are removed separately by the caller.
func (s *PortfolioService) Remove(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.IsExample {
		return apperror.Conflict("Cannot delete example portfolios")
	}
	n, err := s.Repo.Delete(ctx, p.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.KindPersistence, "Could not delete portfolio")
	}
	if n == 0 {
		return apperror.Persistence("Could not delete portfolio")
	}
	if err := s.Ownership.PortfolioRemoved(ctx, p.ID); err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeletePortfolio(ctx, p.ID); err != nil {
			logEntry(s.Logger).WithError(err).WithField("portfolio_id", p.ID.Hex()).Warn("search index delete failed")
		}
	}
	return nil
}

// Clone copies a portfolio for newOwnerID. Section and item identifiers are
// regenerated and layout pages are rewritten to the new section ids. An empty
// newTitle yields "<source title> (Copy)".
func (s *PortfolioService) Clone(ctx context.Context, id, newOwnerID, newTitle string) (*entity.Portfolio, error) {
	src, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := validation.ObjectID(newOwnerID, "Owner id")
	if err != nil {
		return nil, err
	}
	title := newTitle
	if strings.TrimSpace(title) == "" {
		title = src.Title + " (Copy)"
	}

	cp := src.Copy()
	remap := make(map[primitive.ObjectID]primitive.ObjectID, len(cp.Sections))
	sections := make([]rules.SectionInput, 0, len(cp.Sections))
	for i := range cp.Sections {
		sec := &cp.Sections[i]
		fresh := primitive.NewObjectID()
		remap[sec.ID] = fresh
		sec.ID = fresh
		for _, it := range sec.Items {
			it.Base().ID = primitive.NewObjectID()
		}
		in, err := rules.SectionInputOf(*sec)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not copy sections")
		}
		sections = append(sections, in)
	}
	for i := range cp.Layout.Pages {
		page := &cp.Layout.Pages[i]
		for j, sid := range page.SectionIDs {
			if fresh, ok := remap[sid]; ok {
				page.SectionIDs[j] = fresh
			}
		}
	}

	// the source's contact address belongs to its owner
	contactEmail := ""
	if owner == src.OwnerID && src.ContactEmail != nil {
		contactEmail = *src.ContactEmail
	}
	enabled := src.ContactButtonEnabled
	return s.Create(ctx, CreatePortfolioInput{
		OwnerID:               owner.Hex(),
		Title:                 title,
		Description:           src.Description,
		Sections:              sections,
		Layout:                rules.LayoutInputOf(cp.Layout),
		ThemeID:               src.ThemeID.Hex(),
		ContactButtonEnabled:  &enabled,
		ContactEmail:          contactEmail,
		CopiedFromPortfolioID: src.ID.Hex(),
	})
}

func (s *PortfolioService) AddSection(ctx context.Context, portfolioID, sectionType string) (*entity.Portfolio, error) {
	t, err := rules.SectionType(sectionType)
	if err != nil {
		return nil, err
	}
	p, unlock, err := s.lockMutable(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sec := entity.Section{ID: primitive.NewObjectID(), Type: t, Items: []entity.Item{}}
	n, err := s.Repo.PushSection(ctx, p.ID, sec)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add section")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not add section")
	}
	return s.reload(ctx, p.ID)
}

// RemoveSection pulls the section and then strips it from every layout page.
func (s *PortfolioService) RemoveSection(ctx context.Context, portfolioID, sectionID string) (*entity.Portfolio, error) {
	sid, err := validation.ObjectID(sectionID, "Section id")
	if err != nil {
		return nil, err
	}
	p, unlock, err := s.lockMutable(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	n, err := s.Repo.PullSection(ctx, p.ID, sid)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not remove section")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not remove section")
	}
	if !p.Layout.SinglePage {
		pages := p.Layout.WithoutSection(sid).Pages
		if _, err := s.Repo.SetPages(ctx, p.ID, pages); err != nil {
			return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update layout")
		}
	}
	return s.reload(ctx, p.ID)
}

// lockSection locks the portfolio and resolves the section by id. The item
// type check happens afterwards against the stored section type.
func (s *PortfolioService) lockSection(ctx context.Context, portfolioID, sectionID string) (*entity.Portfolio, *entity.Section, func(), error) {
	sid, err := validation.ObjectID(sectionID, "Section id")
	if err != nil {
		return nil, nil, nil, err
	}
	p, unlock, err := s.lockMutable(ctx, portfolioID)
	if err != nil {
		return nil, nil, nil, err
	}
	sec := p.Section(sid)
	if sec == nil {
		unlock()
		return nil, nil, nil, apperror.NotFound("Section not found")
	}
	return p, sec, unlock, nil
}

func (s *PortfolioService) AddSectionItem(ctx context.Context, portfolioID, sectionID string, raw json.RawMessage) (*entity.Portfolio, error) {
	p, sec, unlock, err := s.lockSection(ctx, portfolioID, sectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	it, err := rules.Item(sec.Type, raw)
	if err != nil {
		return nil, err
	}
	it.Base().ID = primitive.NewObjectID()
	n, err := s.Repo.PushItem(ctx, p.ID, sec.ID, it)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not add item to section")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not add item to section")
	}
	return s.reload(ctx, p.ID)
}

// UpdateSectionItem replaces an item; its identifier cannot be changed.
func (s *PortfolioService) UpdateSectionItem(ctx context.Context, portfolioID, sectionID, itemID string, raw json.RawMessage) (*entity.Portfolio, error) {
	iid, err := validation.ObjectID(itemID, "Item id")
	if err != nil {
		return nil, err
	}
	p, sec, unlock, err := s.lockSection(ctx, portfolioID, sectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if sec.ItemIndex(iid) < 0 {
		return nil, apperror.NotFound("Item not found")
	}
	it, err := rules.Item(sec.Type, raw)
	if err != nil {
		return nil, err
	}
	it.Base().ID = iid
	n, err := s.Repo.SetItem(ctx, p.ID, sec.ID, it)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not update item")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not update item")
	}
	return s.reload(ctx, p.ID)
}

func (s *PortfolioService) RemoveSectionItem(ctx context.Context, portfolioID, sectionID, itemID string) (*entity.Portfolio, error) {
	iid, err := validation.ObjectID(itemID, "Item id")
	if err != nil {
		return nil, err
	}
	p, sec, unlock, err := s.lockSection(ctx, portfolioID, sectionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	n, err := s.Repo.PullItem(ctx, p.ID, sec.ID, iid)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindPersistence, "Could not remove item from section")
	}
	if n == 0 {
		return nil, apperror.Persistence("Could not remove item from section")
	}
	return s.reload(ctx, p.ID)
}

func (s *PortfolioService) index(ctx context.Context, p *entity.Portfolio) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexPortfolio(ctx, p); err != nil {
		logEntry(s.Logger).WithError(err).WithField("portfolio_id", p.ID.Hex()).Warn("search index failed")
	}
}
