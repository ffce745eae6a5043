package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a contact-form submission addressed to a portfolio's owner.
type Message struct {
	ID          primitive.ObjectID `json:"id"`
	PortfolioID primitive.ObjectID `json:"portfolioId"`
	SenderName  string             `json:"senderName"`
	SenderEmail string             `json:"senderEmail"`
	Message     string             `json:"message"`
	SentAt      time.Time          `json:"sentAt"`
}
