package rules

import (
	"regexp"
	"strings"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	colorRe    = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

// Username lowercases s and requires 3+ letters, digits or underscores.
func Username(s string) (string, error) {
	u, err := minLen(strings.ToLower(s), "Username", 3)
	if err != nil {
		return "", err
	}
	if !usernameRe.MatchString(u) {
		return "", apperror.Validation("Username can only contain letters, numbers, and underscores")
	}
	return u, nil
}

func ThemeName(s string) (string, error) {
	return minLen(s, "Theme name", 3)
}

func color(s, label string) (string, error) {
	c, err := validation.String(s, label)
	if err != nil {
		return "", err
	}
	if !colorRe.MatchString(c) {
		return "", apperror.Validationf("%s must be a valid hex color code", label)
	}
	return c, nil
}

// ThemeData requires all three colors in #rgb or #rrggbb form.
func ThemeData(d entity.ThemeData) (entity.ThemeData, error) {
	var (
		out entity.ThemeData
		err error
	)
	if out.BackgroundColor, err = color(d.BackgroundColor, "Background color"); err != nil {
		return entity.ThemeData{}, err
	}
	if out.SectionColor, err = color(d.SectionColor, "Section color"); err != nil {
		return entity.ThemeData{}, err
	}
	if out.TextColor, err = color(d.TextColor, "Text color"); err != nil {
		return entity.ThemeData{}, err
	}
	return out, nil
}

func SenderName(s string) (string, error) {
	return minLen(s, "Sender name", 2)
}

func MessageBody(s string) (string, error) {
	return minLen(s, "Message", 10)
}
