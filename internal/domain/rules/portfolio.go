package rules

import (
	"encoding/json"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

// SectionInput is a section as received from a client or rebuilt for a clone.
type SectionInput struct {
	ID    string            `json:"id,omitempty"`
	Type  string            `json:"type"`
	Items []json.RawMessage `json:"items"`
}

type PageInput struct {
	Title      string   `json:"title"`
	SectionIDs []string `json:"sectionIds"`
}

type LayoutInput struct {
	SinglePage *bool       `json:"singlePage"`
	Pages      []PageInput `json:"pages"`
}

func PortfolioTitle(s string) (string, error) {
	return minLen(s, "Portfolio title", 3)
}

func PortfolioDescription(s string) (string, error) {
	return validation.String(s, "Portfolio description")
}

// SectionType trims and lowercases s and checks it against the closed set.
func SectionType(s string) (entity.SectionType, error) {
	t, err := validation.String(s, "Section type")
	if err != nil {
		return "", err
	}
	st := entity.SectionType(strings.ToLower(t))
	if !st.Valid() {
		names := make([]string, len(entity.SectionTypes))
		for i, v := range entity.SectionTypes {
			names[i] = string(v)
		}
		return "", apperror.Validationf("Section type must be one of: %s", strings.Join(names, ", "))
	}
	return st, nil
}

// Section validates a section and its items. Missing section and item
// identifiers are assigned fresh ones.
func Section(in SectionInput) (entity.Section, error) {
	t, err := SectionType(in.Type)
	if err != nil {
		return entity.Section{}, err
	}
	id := primitive.NewObjectID()
	if strings.TrimSpace(in.ID) != "" {
		if id, err = validation.ObjectID(in.ID, "Section id"); err != nil {
			return entity.Section{}, err
		}
	}
	if in.Items == nil {
		return entity.Section{}, apperror.Validation("Section must have an items array")
	}
	out := entity.Section{ID: id, Type: t, Items: make([]entity.Item, 0, len(in.Items))}
	seen := make(map[primitive.ObjectID]struct{}, len(in.Items))
	for _, raw := range in.Items {
		it, err := Item(t, raw)
		if err != nil {
			return entity.Section{}, err
		}
		b := it.Base()
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		if _, dup := seen[b.ID]; dup {
			return entity.Section{}, apperror.Validationf("Duplicate item id %s", b.ID.Hex())
		}
		seen[b.ID] = struct{}{}
		out.Items = append(out.Items, it)
	}
	return out, nil
}

// Sections validates every section and rejects duplicate section ids.
func Sections(in []SectionInput) ([]entity.Section, error) {
	out := make([]entity.Section, 0, len(in))
	seen := make(map[primitive.ObjectID]struct{}, len(in))
	for _, s := range in {
		sec, err := Section(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[sec.ID]; dup {
			return nil, apperror.Validationf("Duplicate section id %s", sec.ID.Hex())
		}
		seen[sec.ID] = struct{}{}
		out = append(out, sec)
	}
	return out, nil
}

// Layout validates the layout shape. A nil input yields the single-page
// default; single-page layouts always end up with no pages. Whether the
// referenced sections exist is not checked here.
func Layout(in *LayoutInput) (entity.Layout, error) {
	if in == nil {
		return entity.SinglePageLayout(), nil
	}
	single, err := validation.Bool(in.SinglePage, "Layout singlePage")
	if err != nil {
		return entity.Layout{}, err
	}
	if single {
		return entity.SinglePageLayout(), nil
	}
	if len(in.Pages) == 0 {
		return entity.Layout{}, apperror.Validation("Multi-page layout must have at least one page")
	}
	pages := make([]entity.Page, 0, len(in.Pages))
	for _, p := range in.Pages {
		title, err := validation.String(p.Title, "Page title")
		if err != nil {
			return entity.Layout{}, err
		}
		if p.SectionIDs == nil {
			return entity.Layout{}, apperror.Validation("Page must have a sectionIds array")
		}
		ids := make([]primitive.ObjectID, 0, len(p.SectionIDs))
		for _, raw := range p.SectionIDs {
			id, err := validation.ObjectID(raw, "Section id")
			if err != nil {
				return entity.Layout{}, err
			}
			ids = append(ids, id)
		}
		pages = append(pages, entity.Page{Title: title, SectionIDs: ids})
	}
	return entity.Layout{SinglePage: false, Pages: pages}, nil
}

// SectionInputOf converts a stored section back into input form.
func SectionInputOf(s entity.Section) (SectionInput, error) {
	in := SectionInput{ID: s.ID.Hex(), Type: string(s.Type), Items: make([]json.RawMessage, 0, len(s.Items))}
	for _, it := range s.Items {
		b, err := json.Marshal(it)
		if err != nil {
			return SectionInput{}, err
		}
		in.Items = append(in.Items, b)
	}
	return in, nil
}

// LayoutInputOf converts a stored layout back into input form.
func LayoutInputOf(l entity.Layout) *LayoutInput {
	single := l.SinglePage
	in := &LayoutInput{SinglePage: &single, Pages: make([]PageInput, 0, len(l.Pages))}
	for _, p := range l.Pages {
		ids := make([]string, len(p.SectionIDs))
		for i, id := range p.SectionIDs {
			ids[i] = id.Hex()
		}
		in.Pages = append(in.Pages, PageInput{Title: p.Title, SectionIDs: ids})
	}
	return in
}
