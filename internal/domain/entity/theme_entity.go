package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ThemeData is the color triple applied to a rendered portfolio.
type ThemeData struct {
	BackgroundColor string `bson:"backgroundColor" json:"backgroundColor"`
	SectionColor    string `bson:"sectionColor" json:"sectionColor"`
	TextColor       string `bson:"textColor" json:"textColor"`
}

// Theme is a named color scheme. A nil OwnerID marks a system theme.
// Example themes are immutable.
type Theme struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID   *primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name      string              `bson:"name" json:"name"`
	ThemeData ThemeData           `bson:"themeData" json:"themeData"`
	IsExample bool                `bson:"isExample" json:"isExample"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}
