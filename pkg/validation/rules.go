package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/pkg/apperror"
)

// DateLayout is the only accepted calendar date format (MM/DD/YYYY).
const DateLayout = "01/02/2006"

// PasswordSymbols lists the symbols a password may contain; one is required.
const PasswordSymbols = "@$!%*?&"

var std = validator.New()

func labelOr(label, def string) string {
	if strings.TrimSpace(label) == "" {
		return def
	}
	return label
}

// String trims s and rejects empty or whitespace-only input.
func String(s, label string) (string, error) {
	label = labelOr(label, "String")
	if s == "" {
		return "", apperror.Validationf("%s must be provided", label)
	}
	t := strings.TrimSpace(s)
	if t == "" {
		return "", apperror.Validationf("%s cannot be empty or just spaces", label)
	}
	return t, nil
}

// ObjectID accepts a primitive.ObjectID (or pointer), its 12-byte binary form,
// or a 24-character hex string.
func ObjectID(v any, label string) (primitive.ObjectID, error) {
	label = labelOr(label, "Id")
	switch x := v.(type) {
	case primitive.ObjectID:
		if x.IsZero() {
			return primitive.NilObjectID, apperror.Validationf("%s must be provided", label)
		}
		return x, nil
	case *primitive.ObjectID:
		if x == nil || x.IsZero() {
			return primitive.NilObjectID, apperror.Validationf("%s must be provided", label)
		}
		return *x, nil
	case []byte:
		if len(x) != 12 {
			return primitive.NilObjectID, apperror.Validationf("%s is not a valid ObjectId", label)
		}
		var id primitive.ObjectID
		copy(id[:], x)
		return id, nil
	case string:
		s, err := String(x, label)
		if err != nil {
			return primitive.NilObjectID, err
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return primitive.NilObjectID, apperror.Validationf("%s is not a valid ObjectId", label)
		}
		return id, nil
	case nil:
		return primitive.NilObjectID, apperror.Validationf("%s must be provided", label)
	default:
		return primitive.NilObjectID, apperror.Validationf("%s is not a valid ObjectId", label)
	}
}

// Date validates a MM/DD/YYYY string that names a real calendar day.
func Date(s, label string) (string, error) {
	label = labelOr(label, "Date")
	t, err := String(s, label)
	if err != nil {
		return "", err
	}
	if !dateRe.MatchString(t) {
		return "", apperror.Validationf("%s must be in MM/DD/YYYY format", label)
	}
	if _, err := time.Parse(DateLayout, t); err != nil {
		return "", apperror.Validationf("%s is not a valid date", label)
	}
	return t, nil
}

// Array rejects a nil (absent) or empty slice.
func Array[T any](items []T, label string) ([]T, error) {
	label = labelOr(label, "Array")
	if items == nil {
		return nil, apperror.Validationf("%s must be provided", label)
	}
	if len(items) == 0 {
		return nil, apperror.Validationf("%s cannot be empty", label)
	}
	return items, nil
}

// ArrayOf is Array plus a per-element validator whose results are collected.
func ArrayOf[T, R any](items []T, label string, elem func(T) (R, error)) ([]R, error) {
	if _, err := Array(items, label); err != nil {
		return nil, err
	}
	out := make([]R, 0, len(items))
	for _, it := range items {
		r, err := elem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Strings validates a non-empty list of non-blank strings and trims each one.
func Strings(items []string, label, elemLabel string) ([]string, error) {
	return ArrayOf(items, label, func(s string) (string, error) { return String(s, elemLabel) })
}

// Email validates the local@domain.tld shape.
func Email(s, label string) (string, error) {
	label = labelOr(label, "Email")
	t, err := String(s, label)
	if err != nil {
		return "", err
	}
	if !emailRe.MatchString(t) {
		return "", apperror.Validationf("%s is not a valid email address", label)
	}
	return t, nil
}

// Password requires 8+ characters from letters, digits and PasswordSymbols,
// with at least one of each class.
func Password(s, label string) (string, error) {
	label = labelOr(label, "Password")
	t, err := String(s, label)
	if err != nil {
		return "", err
	}
	var lower, upper, digit, symbol bool
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return "", apperror.Validationf("%s contains an unsupported character", label)
		}
	}
	if len(t) < 8 || !lower || !upper || !digit || !symbol {
		return "", apperror.Validationf("%s must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character (%s)", label, PasswordSymbols)
	}
	return t, nil
}

// URL validates an absolute URL.
func URL(s, label string) (string, error) {
	label = labelOr(label, "URL")
	t, err := String(s, label)
	if err != nil {
		return "", err
	}
	if err := std.Var(t, "url"); err != nil {
		return "", apperror.Validationf("%s must be a valid URL", label)
	}
	return t, nil
}

// Bool accepts only a real boolean (or a non-nil *bool).
func Bool(v any, label string) (bool, error) {
	label = labelOr(label, "Boolean")
	switch x := v.(type) {
	case bool:
		return x, nil
	case *bool:
		if x == nil {
			return false, apperror.Validationf("%s must be provided", label)
		}
		return *x, nil
	case nil:
		return false, apperror.Validationf("%s must be provided", label)
	default:
		return false, apperror.Validationf("%s must be a boolean", label)
	}
}
