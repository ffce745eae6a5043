package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/profolio/internal/domain/entity"
	"github.com/oksasatya/profolio/pkg/apperror"
)

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestSectionAssignsIDsAndNormalizesType(t *testing.T) {
	sec, err := Section(SectionInput{
		Type:  "  Education ",
		Items: []json.RawMessage{raw(`{"institution":" State U ","degree":"BSc","startDate":"09/01/2018"}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SectionEducation, sec.Type)
	assert.False(t, sec.ID.IsZero())
	require.Len(t, sec.Items, 1)

	edu := sec.Items[0].(*entity.EducationItem)
	assert.False(t, edu.ID.IsZero())
	assert.Equal(t, "State U", edu.Institution)
	assert.Equal(t, 0, edu.Order)
	assert.Equal(t, "09/01/2018", edu.StartDate)
}

func TestSectionRejects(t *testing.T) {
	cases := map[string]SectionInput{
		"unknown type":    {Type: "blog", Items: []json.RawMessage{}},
		"missing items":   {Type: "custom"},
		"item not object": {Type: "custom", Items: []json.RawMessage{raw(`"text"`)}},
		"bad section id":  {ID: "xyz", Type: "custom", Items: []json.RawMessage{}},
		"missing content": {Type: "custom", Items: []json.RawMessage{raw(`{"title":"Hobbies"}`)}},
		"empty tech list": {Type: "project", Items: []json.RawMessage{raw(`{"title":"P","technologies":[]}`)}},
		"bad repo url":    {Type: "project", Items: []json.RawMessage{raw(`{"title":"P","githubRepo":"not a url"}`)}},
		"order not int":   {Type: "custom", Items: []json.RawMessage{raw(`{"title":"T","content":"C","order":"1"}`)}},
		"bad date":        {Type: "work", Items: []json.RawMessage{raw(`{"company":"A","role":"B","startDate":"02/30/2024"}`)}},
		"blank optional":  {Type: "work", Items: []json.RawMessage{raw(`{"company":"A","role":"B","location":"   "}`)}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Section(in)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
		})
	}
}

func TestSectionTypeMessage(t *testing.T) {
	_, err := SectionType("blog")
	assert.EqualError(t, err, "Section type must be one of: education, work, certification, project, custom")
}

func TestItemDispatchesOnSectionType(t *testing.T) {
	it, err := Item(entity.SectionWork, raw(`{"company":"Acme","role":"Dev","achievements":[" Led "],"order":3}`))
	require.NoError(t, err)
	w := it.(*entity.WorkItem)
	assert.Equal(t, []string{"Led"}, w.Achievements)
	assert.Equal(t, 3, w.Order)

	_, err = Item(entity.SectionType("blog"), raw(`{}`))
	assert.EqualError(t, err, "Invalid section type: blog")

	// a work payload is not a valid certification
	_, err = Item(entity.SectionCertification, raw(`{"company":"Acme","role":"Dev"}`))
	assert.EqualError(t, err, "Certification title must be provided")
}

func TestSectionsRejectDuplicateIDs(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	_, err := Sections([]SectionInput{
		{ID: id, Type: "custom", Items: []json.RawMessage{}},
		{ID: id, Type: "work", Items: []json.RawMessage{}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicate section id")
}

func TestLayout(t *testing.T) {
	yes, no := true, false

	l, err := Layout(nil)
	require.NoError(t, err)
	assert.Equal(t, entity.SinglePageLayout(), l)

	l, err = Layout(&LayoutInput{SinglePage: &yes, Pages: []PageInput{{Title: "ignored"}}})
	require.NoError(t, err)
	assert.Empty(t, l.Pages)
	assert.NotNil(t, l.Pages)

	sid := primitive.NewObjectID()
	l, err = Layout(&LayoutInput{SinglePage: &no, Pages: []PageInput{{Title: " About ", SectionIDs: []string{sid.Hex()}}}})
	require.NoError(t, err)
	assert.Equal(t, "About", l.Pages[0].Title)
	assert.Equal(t, []primitive.ObjectID{sid}, l.Pages[0].SectionIDs)

	_, err = Layout(&LayoutInput{})
	assert.EqualError(t, err, "Layout singlePage must be provided")

	_, err = Layout(&LayoutInput{SinglePage: &no})
	assert.Error(t, err)

	_, err = Layout(&LayoutInput{SinglePage: &no, Pages: []PageInput{{Title: "P"}}})
	assert.EqualError(t, err, "Page must have a sectionIds array")

	_, err = Layout(&LayoutInput{SinglePage: &no, Pages: []PageInput{{Title: "P", SectionIDs: []string{"nope"}}}})
	assert.Error(t, err)
}

func TestSectionInputRoundTrip(t *testing.T) {
	sec, err := Section(SectionInput{Type: "project", Items: []json.RawMessage{raw(`{"title":"Site","technologies":["Go"],"githubRepo":"https://github.com/a/b"}`)}})
	require.NoError(t, err)

	in, err := SectionInputOf(sec)
	require.NoError(t, err)
	again, err := Section(in)
	require.NoError(t, err)
	assert.Equal(t, sec.ID, again.ID)
	assert.Equal(t, sec.Items[0].Base().ID, again.Items[0].Base().ID)
	assert.Equal(t, "https://github.com/a/b", again.Items[0].(*entity.ProjectItem).GithubRepo)
}

func TestThemeData(t *testing.T) {
	d, err := ThemeData(entity.ThemeData{BackgroundColor: "#FFF", SectionColor: "#1a2b3c", TextColor: " #000 "})
	require.NoError(t, err)
	assert.Equal(t, "#000", d.TextColor)

	_, err = ThemeData(entity.ThemeData{BackgroundColor: "#FFFF", SectionColor: "#000", TextColor: "#000"})
	assert.EqualError(t, err, "Background color must be a valid hex color code")

	_, err = ThemeData(entity.ThemeData{BackgroundColor: "#fff", SectionColor: "#000"})
	assert.EqualError(t, err, "Text color must be provided")

	_, err = ThemeName("ab")
	assert.Error(t, err)
}

func TestUsername(t *testing.T) {
	u, err := Username("Jane_Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", u)

	for _, bad := range []string{"ab", "jane doe", "jane-doe", ""} {
		_, err := Username(bad)
		assert.Error(t, err, bad)
	}
}

func TestMessageFields(t *testing.T) {
	_, err := SenderName("J")
	assert.Error(t, err)
	_, err = MessageBody("too short")
	assert.EqualError(t, err, "Message must be at least 10 characters long")
	got, err := MessageBody("  Hello there!  ")
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", got)
}

func validMovie() MovieInput {
	return MovieInput{
		Title:        "The Dark Knight",
		Plot:         "Batman faces the Joker.",
		Genres:       []string{"Action", "Drama"},
		Rating:       "PG-13",
		Studio:       "Warner Brothers",
		Director:     "Christopher Nolan",
		CastMembers:  []string{"Christian Bale", "Heath Ledger"},
		DateReleased: "07/18/2008",
		Runtime:      "2h 32min",
	}
}

func TestMovie(t *testing.T) {
	m, err := Movie(validMovie())
	require.NoError(t, err)
	assert.Equal(t, "Christopher Nolan", m.Director)

	mutate := map[string]func(*MovieInput){
		"short title":  func(in *MovieInput) { in.Title = "X" },
		"symbol title": func(in *MovieInput) { in.Title = "Heat!" },
		"short genre":  func(in *MovieInput) { in.Genres = []string{"War"} },
		"no genres":    func(in *MovieInput) { in.Genres = nil },
		"bad rating":   func(in *MovieInput) { in.Rating = "X" },
		"short studio": func(in *MovieInput) { in.Studio = "WB" },
		"one name":     func(in *MovieInput) { in.Director = "Nolan" },
		"short name":   func(in *MovieInput) { in.CastMembers = []string{"Al Pacino"} },
		"bad release":  func(in *MovieInput) { in.DateReleased = "2008-07-18" },
		"bad runtime":  func(in *MovieInput) { in.Runtime = "152 minutes" },
		"runtime mins": func(in *MovieInput) { in.Runtime = "2h 75min" },
		"zero runtime": func(in *MovieInput) { in.Runtime = "0h 0min" },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			in := validMovie()
			fn(&in)
			_, err := Movie(in)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestReviewRating(t *testing.T) {
	for _, ok := range []float64{1, 3.5, 5} {
		_, err := ReviewRating(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []float64{0, 0.9, 5.1, 4.25} {
		_, err := ReviewRating(bad)
		assert.Error(t, err, bad)
	}
}
