// Package rules validates and normalizes raw domain input into entities.
// Every failure is an apperror of kind validation.
package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

// decodeObject decodes raw into dst, requiring a JSON object.
func decodeObject(raw json.RawMessage, label string, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return apperror.Validationf("%s must be an object", label)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			if ute.Field == "order" {
				return apperror.Validation("Order must be an integer")
			}
			return apperror.Validationf("%s field %s must be of type %s", label, ute.Field, ute.Type.String())
		}
		return apperror.Validationf("%s must be an object", label)
	}
	return nil
}

func required(p *string, label string) (string, error) {
	if p == nil {
		return validation.String("", label)
	}
	return validation.String(*p, label)
}

// optional validates p only when it is present and non-empty.
func optional(p *string, label string) (string, error) {
	if p == nil || *p == "" {
		return "", nil
	}
	return validation.String(*p, label)
}

func optionalDate(p *string, label string) (string, error) {
	if p == nil || *p == "" {
		return "", nil
	}
	return validation.Date(*p, label)
}

func optionalURL(p *string, label string) (string, error) {
	if p == nil || *p == "" {
		return "", nil
	}
	return validation.URL(*p, label)
}

func optionalStrings(in []string, label, elem string) ([]string, error) {
	if in == nil {
		return nil, nil
	}
	return validation.Strings(in, label, elem)
}

func optionalID(p *string, label string) (primitive.ObjectID, error) {
	if p == nil || strings.TrimSpace(*p) == "" {
		return primitive.NilObjectID, nil
	}
	return validation.ObjectID(*p, label)
}

func orderOf(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// minLen validates s as a string and enforces a minimum rune length.
func minLen(s, label string, n int) (string, error) {
	t, err := validation.String(s, label)
	if err != nil {
		return "", err
	}
	if len([]rune(t)) < n {
		return "", apperror.Validationf("%s must be at least %d characters long", label, n)
	}
	return t, nil
}
