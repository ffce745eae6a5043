package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSectionBSONDecodesVariantByType(t *testing.T) {
	sec := Section{
		ID:   primitive.NewObjectID(),
		Type: SectionProject,
		Items: []Item{&ProjectItem{
			ItemBase:     ItemBase{ID: primitive.NewObjectID(), Order: 2},
			Title:        "Profolio",
			Technologies: []string{"Go", "MongoDB"},
			GithubRepo:   "https://github.com/acme/profolio",
		}},
	}
	p := Portfolio{ID: primitive.NewObjectID(), Title: "Mine", Sections: []Section{sec}, Layout: SinglePageLayout()}

	raw, err := bson.Marshal(p)
	require.NoError(t, err)

	var got Portfolio
	require.NoError(t, bson.Unmarshal(raw, &got))
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Items, 1)

	item, ok := got.Sections[0].Items[0].(*ProjectItem)
	require.True(t, ok, "got %T", got.Sections[0].Items[0])
	assert.Equal(t, sec.Items[0].Base().ID, item.ID)
	assert.Equal(t, 2, item.Order)
	assert.Equal(t, []string{"Go", "MongoDB"}, item.Technologies)
}

func TestSectionBSONKeepsUnknownTypeItems(t *testing.T) {
	id := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"_id":   id,
		"type":  "blog",
		"items": bson.A{bson.M{"_id": primitive.NewObjectID(), "headline": "x"}},
	})
	require.NoError(t, err)

	var s Section
	require.NoError(t, bson.Unmarshal(raw, &s))
	assert.Equal(t, SectionType("blog"), s.Type)
	assert.Empty(t, s.Items)

	back, err := bson.Marshal(s)
	require.NoError(t, err)
	var doc struct {
		Items []bson.M `bson:"items"`
	}
	require.NoError(t, bson.Unmarshal(back, &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "x", doc.Items[0]["headline"])
}

func TestSectionJSONShape(t *testing.T) {
	s := Section{ID: primitive.NewObjectID(), Type: SectionCustom, Items: []Item{&CustomItem{Title: "Hobbies", Content: "Chess"}}}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	items := m["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "Hobbies", first["title"])
	assert.Contains(t, first, "order")
}

func TestLayoutWithoutSectionAndPrune(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	l := Layout{Pages: []Page{{Title: "One", SectionIDs: []primitive.ObjectID{a, b}}, {Title: "Two", SectionIDs: []primitive.ObjectID{c}}}}

	got := l.WithoutSection(b)
	assert.Equal(t, []primitive.ObjectID{a}, got.Pages[0].SectionIDs)
	assert.Equal(t, []primitive.ObjectID{c}, got.Pages[1].SectionIDs)

	pruned := l.Prune([]Section{{ID: c}})
	assert.Empty(t, pruned.Pages[0].SectionIDs)
	assert.Equal(t, "One", pruned.Pages[0].Title)
	assert.Equal(t, []primitive.ObjectID{c}, pruned.Pages[1].SectionIDs)

	single := Layout{SinglePage: true, Pages: []Page{{Title: "stale"}}}.Prune(nil)
	assert.Equal(t, SinglePageLayout(), single)
}

func TestPortfolioCopyIsDeep(t *testing.T) {
	work := &WorkItem{ItemBase: ItemBase{ID: primitive.NewObjectID()}, Company: "Acme", Role: "Dev", Achievements: []string{"shipped"}}
	p := Portfolio{Sections: []Section{{ID: primitive.NewObjectID(), Type: SectionWork, Items: []Item{work}}}}

	cp := p.Copy()
	cp.Sections[0].Items[0].(*WorkItem).Achievements[0] = "changed"
	cp.Sections[0].Items[0].Base().Order = 9

	assert.Equal(t, "shipped", work.Achievements[0])
	assert.Equal(t, 0, work.Order)
}

func TestOverallRating(t *testing.T) {
	rs := func(vals ...float64) []Review {
		out := make([]Review, len(vals))
		for i, v := range vals {
			out[i] = Review{Rating: v}
		}
		return out
	}
	assert.Equal(t, 0.0, OverallRating(nil))
	assert.Equal(t, 4.0, OverallRating(rs(5, 4, 3, 5, 3)))
	assert.Equal(t, 4.3, OverallRating(rs(5, 4, 5, 3)))
	assert.Equal(t, 3.7, OverallRating(rs(4, 4, 3)))
	assert.Equal(t, 2.5, OverallRating(rs(2, 3)))
}

func TestOverallRatingRoundsTenthsHalfUp(t *testing.T) {
	cases := []struct {
		a, b float64
		want float64
	}{
		{1.1, 4.6, 2.9},
		{1.2, 1.9, 1.6},
		{1.3, 4.6, 3.0},
		{2.7, 4.0, 3.4},
		{1.0, 1.1, 1.1},
		{4.9, 5.0, 5.0},
	}
	for _, tc := range cases {
		got := OverallRating([]Review{{Rating: tc.a}, {Rating: tc.b}})
		assert.Equal(t, tc.want, got, "ratings %.1f,%.1f", tc.a, tc.b)
	}

	// every pair of one-decimal ratings matches exact integer half-up rounding
	for a := 10; a <= 50; a++ {
		for b := 10; b <= 50; b++ {
			want := float64((a+b+1)/2) / 10
			got := OverallRating([]Review{{Rating: float64(a) / 10}, {Rating: float64(b) / 10}})
			assert.Equal(t, want, got, "ratings %d,%d tenths", a, b)
		}
	}
}
