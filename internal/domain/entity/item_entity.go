package entity

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is one entry of a section. The set of implementations is closed:
// EducationItem, WorkItem, CertificationItem, ProjectItem and CustomItem.
type Item interface {
	Kind() SectionType
	Base() *ItemBase
	sealed()
}

// ItemBase holds the fields every item variant shares.
type ItemBase struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Order int                `bson:"order" json:"order"`
}

func (b *ItemBase) Base() *ItemBase { return b }
func (*ItemBase) sealed()           {}

type EducationItem struct {
	ItemBase    `bson:",inline"`
	Institution string `bson:"institution" json:"institution"`
	Degree      string `bson:"degree" json:"degree"`
	StartDate   string `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     string `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Location    string `bson:"location,omitempty" json:"location,omitempty"`
}

type WorkItem struct {
	ItemBase     `bson:",inline"`
	Company      string   `bson:"company" json:"company"`
	Role         string   `bson:"role" json:"role"`
	StartDate    string   `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      string   `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Location     string   `bson:"location,omitempty" json:"location,omitempty"`
	Achievements []string `bson:"achievements,omitempty" json:"achievements,omitempty"`
}

type CertificationItem struct {
	ItemBase       `bson:",inline"`
	Title          string `bson:"title" json:"title"`
	Issuer         string `bson:"issuer" json:"issuer"`
	IssueDate      string `bson:"issueDate,omitempty" json:"issueDate,omitempty"`
	ExpirationDate string `bson:"expirationDate,omitempty" json:"expirationDate,omitempty"`
	Description    string `bson:"description,omitempty" json:"description,omitempty"`
}

type ProjectItem struct {
	ItemBase     `bson:",inline"`
	Title        string   `bson:"title" json:"title"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Technologies []string `bson:"technologies,omitempty" json:"technologies,omitempty"`
	StartDate    string   `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      string   `bson:"endDate,omitempty" json:"endDate,omitempty"`
	GithubRepo   string   `bson:"githubRepo,omitempty" json:"githubRepo,omitempty"`
}

type CustomItem struct {
	ItemBase `bson:",inline"`
	Title    string `bson:"title" json:"title"`
	Content  string `bson:"content" json:"content"`
}

func (*EducationItem) Kind() SectionType     { return SectionEducation }
func (*WorkItem) Kind() SectionType          { return SectionWork }
func (*CertificationItem) Kind() SectionType { return SectionCertification }
func (*ProjectItem) Kind() SectionType       { return SectionProject }
func (*CustomItem) Kind() SectionType        { return SectionCustom }

// NewItem returns an empty variant for t, or false for an unknown type.
func NewItem(t SectionType) (Item, bool) {
	switch t {
	case SectionEducation:
		return &EducationItem{}, true
	case SectionWork:
		return &WorkItem{}, true
	case SectionCertification:
		return &CertificationItem{}, true
	case SectionProject:
		return &ProjectItem{}, true
	case SectionCustom:
		return &CustomItem{}, true
	}
	return nil, false
}

// CopyItem deep-copies an item variant.
func CopyItem(it Item) Item {
	switch v := it.(type) {
	case *EducationItem:
		c := *v
		return &c
	case *WorkItem:
		c := *v
		c.Achievements = cloneStrings(v.Achievements)
		return &c
	case *CertificationItem:
		c := *v
		return &c
	case *ProjectItem:
		c := *v
		c.Technologies = cloneStrings(v.Technologies)
		return &c
	case *CustomItem:
		c := *v
		return &c
	}
	panic(fmt.Sprintf("entity: unknown item variant %T", it))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

type rawItem = bson.Raw

type sectionDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Type  SectionType        `bson:"type"`
	Items []bson.Raw         `bson:"items"`
}

type sectionOut struct {
	ID    primitive.ObjectID `bson:"_id"`
	Type  SectionType        `bson:"type"`
	Items []any              `bson:"items"`
}

// MarshalBSON writes the section with its items in variant form.
func (s Section) MarshalBSON() ([]byte, error) {
	items := make([]any, 0, len(s.Items)+len(s.unknown))
	for _, it := range s.Items {
		items = append(items, it)
	}
	for _, raw := range s.unknown {
		items = append(items, raw)
	}
	return bson.Marshal(sectionOut{ID: s.ID, Type: s.Type, Items: items})
}

// UnmarshalBSON decodes items into the variant named by the section type.
// Items under an unrecognized type are retained untouched.
func (s *Section) UnmarshalBSON(data []byte) error {
	var doc sectionDoc
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.ID, s.Type = doc.ID, doc.Type
	s.Items = make([]Item, 0, len(doc.Items))
	s.unknown = nil
	for _, raw := range doc.Items {
		it, ok := NewItem(doc.Type)
		if !ok {
			s.unknown = append(s.unknown, raw)
			continue
		}
		if err := bson.Unmarshal(raw, it); err != nil {
			return fmt.Errorf("section %s: decode %s item: %w", doc.ID.Hex(), doc.Type, err)
		}
		s.Items = append(s.Items, it)
	}
	return nil
}
