package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account aggregate. Usernames and emails are stored lowercased.
// PasswordHash never leaves the application layer.
type User struct {
	ID                primitive.ObjectID  `json:"id"`
	Username          string              `json:"username"`
	Email             string              `json:"email"`
	PasswordHash      string              `json:"-"`
	ProfilePictureID  *primitive.ObjectID `json:"profilePictureId"`
	ActivePortfolioID *primitive.ObjectID `json:"activePortfolioId"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// Public returns a copy with the credential hash stripped.
func (u User) Public() *User {
	u.PasswordHash = ""
	return &u
}
