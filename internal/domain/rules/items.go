package rules

import (
	"encoding/json"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/apperror"
)

// Item validates raw against the variant of section type t. The returned
// item keeps any identifier supplied in raw; callers decide whether to
// assign or override it.
func Item(t entity.SectionType, raw json.RawMessage) (entity.Item, error) {
	switch t {
	case entity.SectionEducation:
		return educationItem(raw)
	case entity.SectionWork:
		return workItem(raw)
	case entity.SectionCertification:
		return certificationItem(raw)
	case entity.SectionProject:
		return projectItem(raw)
	case entity.SectionCustom:
		return customItem(raw)
	}
	return nil, apperror.Validationf("Invalid section type: %s", t)
}

type itemHead struct {
	ID    *string `json:"id"`
	Order *int    `json:"order"`
}

func (h itemHead) base() (entity.ItemBase, error) {
	id, err := optionalID(h.ID, "Item id")
	if err != nil {
		return entity.ItemBase{}, err
	}
	return entity.ItemBase{ID: id, Order: orderOf(h.Order)}, nil
}

func educationItem(raw json.RawMessage) (entity.Item, error) {
	var in struct {
		itemHead
		Institution *string `json:"institution"`
		Degree      *string `json:"degree"`
		StartDate   *string `json:"startDate"`
		EndDate     *string `json:"endDate"`
		Description *string `json:"description"`
		Location    *string `json:"location"`
	}
	if err := decodeObject(raw, "Education item", &in); err != nil {
		return nil, err
	}
	var (
		it  = &entity.EducationItem{}
		err error
	)
	if it.ItemBase, err = in.base(); err != nil {
		return nil, err
	}
	if it.Institution, err = required(in.Institution, "Institution"); err != nil {
		return nil, err
	}
	if it.Degree, err = required(in.Degree, "Degree"); err != nil {
		return nil, err
	}
	if it.StartDate, err = optionalDate(in.StartDate, "Start date"); err != nil {
		return nil, err
	}
	if it.EndDate, err = optionalDate(in.EndDate, "End date"); err != nil {
		return nil, err
	}
	if it.Description, err = optional(in.Description, "Description"); err != nil {
		return nil, err
	}
	if it.Location, err = optional(in.Location, "Location"); err != nil {
		return nil, err
	}
	return it, nil
}

func workItem(raw json.RawMessage) (entity.Item, error) {
	var in struct {
		itemHead
		Company      *string  `json:"company"`
		Role         *string  `json:"role"`
		StartDate    *string  `json:"startDate"`
		EndDate      *string  `json:"endDate"`
		Description  *string  `json:"description"`
		Location     *string  `json:"location"`
		Achievements []string `json:"achievements"`
	}
	if err := decodeObject(raw, "Work experience item", &in); err != nil {
		return nil, err
	}
	var (
		it  = &entity.WorkItem{}
		err error
	)
	if it.ItemBase, err = in.base(); err != nil {
		return nil, err
	}
	if it.Company, err = required(in.Company, "Company"); err != nil {
		return nil, err
	}
	if it.Role, err = required(in.Role, "Role"); err != nil {
		return nil, err
	}
	if it.StartDate, err = optionalDate(in.StartDate, "Start date"); err != nil {
		return nil, err
	}
	if it.EndDate, err = optionalDate(in.EndDate, "End date"); err != nil {
		return nil, err
	}
	if it.Description, err = optional(in.Description, "Description"); err != nil {
		return nil, err
	}
	if it.Location, err = optional(in.Location, "Location"); err != nil {
		return nil, err
	}
	if it.Achievements, err = optionalStrings(in.Achievements, "Achievements", "Achievement"); err != nil {
		return nil, err
	}
	return it, nil
}

func certificationItem(raw json.RawMessage) (entity.Item, error) {
	var in struct {
		itemHead
		Title          *string `json:"title"`
		Issuer         *string `json:"issuer"`
		IssueDate      *string `json:"issueDate"`
		ExpirationDate *string `json:"expirationDate"`
		Description    *string `json:"description"`
	}
	if err := decodeObject(raw, "Certification item", &in); err != nil {
		return nil, err
	}
	var (
		it  = &entity.CertificationItem{}
		err error
	)
	if it.ItemBase, err = in.base(); err != nil {
		return nil, err
	}
	if it.Title, err = required(in.Title, "Certification title"); err != nil {
		return nil, err
	}
	if it.Issuer, err = required(in.Issuer, "Issuer"); err != nil {
		return nil, err
	}
	if it.IssueDate, err = optionalDate(in.IssueDate, "Issue date"); err != nil {
		return nil, err
	}
	if it.ExpirationDate, err = optionalDate(in.ExpirationDate, "Expiration date"); err != nil {
		return nil, err
	}
	if it.Description, err = optional(in.Description, "Description"); err != nil {
		return nil, err
	}
	return it, nil
}

func projectItem(raw json.RawMessage) (entity.Item, error) {
	var in struct {
		itemHead
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		Technologies []string `json:"technologies"`
		StartDate    *string  `json:"startDate"`
		EndDate      *string  `json:"endDate"`
		GithubRepo   *string  `json:"githubRepo"`
	}
	if err := decodeObject(raw, "Project item", &in); err != nil {
		return nil, err
	}
	var (
		it  = &entity.ProjectItem{}
		err error
	)
	if it.ItemBase, err = in.base(); err != nil {
		return nil, err
	}
	if it.Title, err = required(in.Title, "Project title"); err != nil {
		return nil, err
	}
	if it.Description, err = optional(in.Description, "Description"); err != nil {
		return nil, err
	}
	if it.Technologies, err = optionalStrings(in.Technologies, "Technologies", "Technology"); err != nil {
		return nil, err
	}
	if it.StartDate, err = optionalDate(in.StartDate, "Start date"); err != nil {
		return nil, err
	}
	if it.EndDate, err = optionalDate(in.EndDate, "End date"); err != nil {
		return nil, err
	}
	if it.GithubRepo, err = optionalURL(in.GithubRepo, "GitHub repository URL"); err != nil {
		return nil, err
	}
	return it, nil
}

func customItem(raw json.RawMessage) (entity.Item, error) {
	var in struct {
		itemHead
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeObject(raw, "Custom item", &in); err != nil {
		return nil, err
	}
	var (
		it  = &entity.CustomItem{}
		err error
	)
	if it.ItemBase, err = in.base(); err != nil {
		return nil, err
	}
	if it.Title, err = required(in.Title, "Custom section title"); err != nil {
		return nil, err
	}
	if it.Content, err = required(in.Content, "Content"); err != nil {
		return nil, err
	}
	return it, nil
}
