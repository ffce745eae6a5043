package entity

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded in its Movie; ReviewDate uses MM/DD/YYYY.
type Review struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	ReviewTitle  string             `bson:"reviewTitle" json:"reviewTitle"`
	ReviewDate   string             `bson:"reviewDate" json:"reviewDate"`
	ReviewerName string             `bson:"reviewerName" json:"reviewerName"`
	Review       string             `bson:"review" json:"review"`
	Rating       float64            `bson:"rating" json:"rating"`
}

// Movie carries its reviews and the aggregate OverallRating derived from them.
type Movie struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Plot          string             `bson:"plot" json:"plot"`
	Genres        []string           `bson:"genres" json:"genres"`
	Rating        string             `bson:"rating" json:"rating"`
	Studio        string             `bson:"studio" json:"studio"`
	Director      string             `bson:"director" json:"director"`
	CastMembers   []string           `bson:"castMembers" json:"castMembers"`
	DateReleased  string             `bson:"dateReleased" json:"dateReleased"`
	Runtime       string             `bson:"runtime" json:"runtime"`
	Reviews       []Review           `bson:"reviews" json:"reviews"`
	OverallRating float64            `bson:"overallRating" json:"overallRating"`
}

// MovieSummary is the list projection of a movie.
type MovieSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

// OverallRating is the mean review rating rounded half-up to one decimal, 0 with no reviews.
func OverallRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	// sum in integer tenths so x.x5 means round up exactly
	var sum int
	for _, r := range reviews {
		sum += int(math.Round(r.Rating * 10))
	}
	n := len(reviews)
	return float64((2*sum+n)/(2*n)) / 10
}

// Review returns the embedded review with the given id, or nil.
func (m *Movie) Review(id primitive.ObjectID) *Review {
	for i := range m.Reviews {
		if m.Reviews[i].ID == id {
			return &m.Reviews[i]
		}
	}
	return nil
}

// WithoutReview returns the reviews other than id.
func (m *Movie) WithoutReview(id primitive.ObjectID) []Review {
	out := make([]Review, 0, len(m.Reviews))
	for _, r := range m.Reviews {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
