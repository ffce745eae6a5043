package rules

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/apperror"
	"github.com/oksasatya/profolio/pkg/validation"
)

var (
	movieTitleRe = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	lettersRe    = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	runtimeRe    = regexp.MustCompile(`^(\d+)h (\d+)min$`)
	mpaaRatings  = []string{"G", "PG", "PG-13", "R", "NC-17"}
)

type MovieInput struct {
	Title        string   `json:"title"`
	Plot         string   `json:"plot"`
	Genres       []string `json:"genres"`
	Rating       string   `json:"rating"`
	Studio       string   `json:"studio"`
	Director     string   `json:"director"`
	CastMembers  []string `json:"castMembers"`
	DateReleased string   `json:"dateReleased"`
	Runtime      string   `json:"runtime"`
}

type ReviewInput struct {
	ReviewTitle  string  `json:"reviewTitle"`
	ReviewerName string  `json:"reviewerName"`
	Review       string  `json:"review"`
	Rating       float64 `json:"rating"`
}

func lettersOnly(s, label string, min int) (string, error) {
	t, err := minLen(s, label, min)
	if err != nil {
		return "", err
	}
	if !lettersRe.MatchString(t) {
		return "", apperror.Validationf("%s can only contain letters and spaces", label)
	}
	return t, nil
}

// personName requires "First Last" with both parts 3+ letters.
func personName(s, label string) (string, error) {
	t, err := validation.String(s, label)
	if err != nil {
		return "", err
	}
	parts := strings.Fields(t)
	if len(parts) < 2 {
		return "", apperror.Validationf("%s must have first and last name", label)
	}
	if len(parts[0]) < 3 || len(parts[1]) < 3 {
		return "", apperror.Validationf("%s first and last name must be at least 3 characters", label)
	}
	if !lettersRe.MatchString(t) {
		return "", apperror.Validationf("%s name can only contain letters and spaces", label)
	}
	return t, nil
}

// Runtime accepts "<hours>h <minutes>min" with minutes below 60 and a positive total.
func Runtime(s string) (string, error) {
	t, err := validation.String(s, "Runtime")
	if err != nil {
		return "", err
	}
	m := runtimeRe.FindStringSubmatch(t)
	if m == nil {
		return "", apperror.Validation("Runtime must be in the format '#h #min'")
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if mins > 59 {
		return "", apperror.Validation("Runtime minutes must be between 0 and 59")
	}
	if hours == 0 && mins == 0 {
		return "", apperror.Validation("Runtime must be greater than zero")
	}
	return t, nil
}

// Movie validates every descriptive field of a movie.
func Movie(in MovieInput) (entity.Movie, error) {
	var (
		m   entity.Movie
		err error
	)
	if m.Title, err = minLen(in.Title, "Title", 2); err != nil {
		return entity.Movie{}, err
	}
	if !movieTitleRe.MatchString(m.Title) {
		return entity.Movie{}, apperror.Validation("Title can only contain letters, numbers and spaces")
	}
	if m.Plot, err = validation.String(in.Plot, "Plot"); err != nil {
		return entity.Movie{}, err
	}
	if m.Genres, err = validation.ArrayOf(in.Genres, "Genres", func(g string) (string, error) {
		return lettersOnly(g, "Genre", 5)
	}); err != nil {
		return entity.Movie{}, err
	}
	if m.Rating, err = validation.String(in.Rating, "Rating"); err != nil {
		return entity.Movie{}, err
	}
	if !contains(mpaaRatings, m.Rating) {
		return entity.Movie{}, apperror.Validation("Invalid rating. Must be G, PG, PG-13, R, or NC-17")
	}
	if m.Studio, err = lettersOnly(in.Studio, "Studio", 5); err != nil {
		return entity.Movie{}, err
	}
	if m.Director, err = personName(in.Director, "Director"); err != nil {
		return entity.Movie{}, err
	}
	if m.CastMembers, err = validation.ArrayOf(in.CastMembers, "Cast members", func(c string) (string, error) {
		return personName(c, "Cast member")
	}); err != nil {
		return entity.Movie{}, err
	}
	if m.DateReleased, err = validation.Date(in.DateReleased, "Date released"); err != nil {
		return entity.Movie{}, err
	}
	if m.Runtime, err = Runtime(in.Runtime); err != nil {
		return entity.Movie{}, err
	}
	return m, nil
}

// ReviewRating accepts 1 through 5 with at most one decimal place.
func ReviewRating(r float64) (float64, error) {
	if math.IsNaN(r) || r < 1 || r > 5 {
		return 0, apperror.Validation("Rating must be a number from 1 to 5")
	}
	if math.Abs(r*10-math.Round(r*10)) > 1e-9 {
		return 0, apperror.Validation("Rating can have at most one decimal place")
	}
	return r, nil
}

// Review validates the client-supplied review fields.
func Review(in ReviewInput) (entity.Review, error) {
	var (
		r   entity.Review
		err error
	)
	if r.ReviewTitle, err = validation.String(in.ReviewTitle, "Review title"); err != nil {
		return entity.Review{}, err
	}
	if r.ReviewerName, err = validation.String(in.ReviewerName, "Reviewer name"); err != nil {
		return entity.Review{}, err
	}
	if r.Review, err = validation.String(in.Review, "Review text"); err != nil {
		return entity.Review{}, err
	}
	if r.Rating, err = ReviewRating(in.Rating); err != nil {
		return entity.Review{}, err
	}
	return r, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
