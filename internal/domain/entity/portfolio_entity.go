package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionType names the closed set of section kinds.
type SectionType string

const (
	SectionEducation     SectionType = "education"
	SectionWork          SectionType = "work"
	SectionCertification SectionType = "certification"
	SectionProject       SectionType = "project"
	SectionCustom        SectionType = "custom"
)

// SectionTypes lists every recognized type in display order.
var SectionTypes = []SectionType{SectionEducation, SectionWork, SectionCertification, SectionProject, SectionCustom}

func (t SectionType) Valid() bool {
	for _, s := range SectionTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Section is a typed group of items; every item's variant matches Type.
type Section struct {
	ID    primitive.ObjectID `json:"id"`
	Type  SectionType        `json:"type"`
	Items []Item             `json:"items"`

	// items of an unrecognized stored type, kept verbatim for write-back
	unknown []rawItem
}

// ItemIndex returns the position of the item with the given id, or -1.
func (s *Section) ItemIndex(id primitive.ObjectID) int {
	for i, it := range s.Items {
		if it.Base().ID == id {
			return i
		}
	}
	return -1
}

// Page is one page of a multi-page layout.
type Page struct {
	Title      string               `bson:"title" json:"title"`
	SectionIDs []primitive.ObjectID `bson:"sectionIds" json:"sectionIds"`
}

// Layout places sections on pages. A single-page layout has no pages.
type Layout struct {
	SinglePage bool   `bson:"singlePage" json:"singlePage"`
	Pages      []Page `bson:"pages" json:"pages"`
}

// SinglePageLayout is the default layout for new portfolios.
func SinglePageLayout() Layout { return Layout{SinglePage: true, Pages: []Page{}} }

// WithoutSection returns the layout with id removed from every page.
func (l Layout) WithoutSection(id primitive.ObjectID) Layout {
	keep := func(s primitive.ObjectID) bool { return s != id }
	return l.filter(keep)
}

// Prune drops page references to sections that do not exist.
func (l Layout) Prune(sections []Section) Layout {
	known := make(map[primitive.ObjectID]struct{}, len(sections))
	for _, s := range sections {
		known[s.ID] = struct{}{}
	}
	return l.filter(func(id primitive.ObjectID) bool {
		_, ok := known[id]
		return ok
	})
}

func (l Layout) filter(keep func(primitive.ObjectID) bool) Layout {
	if l.SinglePage {
		return SinglePageLayout()
	}
	pages := make([]Page, 0, len(l.Pages))
	for _, p := range l.Pages {
		ids := make([]primitive.ObjectID, 0, len(p.SectionIDs))
		for _, id := range p.SectionIDs {
			if keep(id) {
				ids = append(ids, id)
			}
		}
		pages = append(pages, Page{Title: p.Title, SectionIDs: ids})
	}
	return Layout{SinglePage: false, Pages: pages}
}

// Portfolio is the document aggregate: ordered sections, a layout over them,
// a theme reference and contact settings.
type Portfolio struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID               primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	Title                 string              `bson:"title" json:"title"`
	Description           string              `bson:"description" json:"description"`
	Sections              []Section           `bson:"sections" json:"sections"`
	Layout                Layout              `bson:"layout" json:"layout"`
	ThemeID               primitive.ObjectID  `bson:"themeId" json:"themeId"`
	ContactButtonEnabled  bool                `bson:"contactButtonEnabled" json:"contactButtonEnabled"`
	ContactEmail          *string             `bson:"contactEmail" json:"contactEmail"`
	IsExample             bool                `bson:"isExample" json:"isExample"`
	CopiedFromPortfolioID *primitive.ObjectID `bson:"copiedFromPortfolioId" json:"copiedFromPortfolioId"`
	CreatedAt             time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Section returns the section with the given id, or nil.
func (p *Portfolio) Section(id primitive.ObjectID) *Section {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i]
		}
	}
	return nil
}

// PortfolioUpdate carries the replaceable fields of a portfolio.
type PortfolioUpdate struct {
	Title                string
	Description          string
	Sections             []Section
	Layout               Layout
	ThemeID              primitive.ObjectID
	ContactButtonEnabled bool
	ContactEmail         *string
	UpdatedAt            time.Time
}

// Copy returns a deep copy that shares no slices or items with p.
func (p Portfolio) Copy() Portfolio {
	out := p
	out.Sections = make([]Section, len(p.Sections))
	for i, s := range p.Sections {
		out.Sections[i] = s.Copy()
	}
	out.Layout = p.Layout.Copy()
	if p.ContactEmail != nil {
		e := *p.ContactEmail
		out.ContactEmail = &e
	}
	if p.CopiedFromPortfolioID != nil {
		id := *p.CopiedFromPortfolioID
		out.CopiedFromPortfolioID = &id
	}
	return out
}

func (s Section) Copy() Section {
	out := Section{ID: s.ID, Type: s.Type, Items: make([]Item, len(s.Items)), unknown: s.unknown}
	for i, it := range s.Items {
		out.Items[i] = CopyItem(it)
	}
	return out
}

func (l Layout) Copy() Layout {
	out := Layout{SinglePage: l.SinglePage, Pages: make([]Page, len(l.Pages))}
	for i, p := range l.Pages {
		out.Pages[i] = Page{Title: p.Title, SectionIDs: append([]primitive.ObjectID{}, p.SectionIDs...)}
	}
	return out
}
