package templates

import "time"

// ContactData feeds the contact_message templates.
type ContactData struct {
	AppName        string `json:"AppName"`
	PortfolioTitle string `json:"PortfolioTitle"`
	SenderName     string `json:"SenderName"`
	SenderEmail    string `json:"SenderEmail"`
	Message        string `json:"Message"`
	SentAt         string `json:"SentAt"`
}

func NewContactData(appName, portfolioTitle, senderName, senderEmail, message string, sentAt time.Time) ContactData {
	return ContactData{
		AppName:        appName,
		PortfolioTitle: portfolioTitle,
		SenderName:     senderName,
		SenderEmail:    senderEmail,
		Message:        message,
		SentAt:         sentAt.UTC().Format("02 January 2006, 15:04 MST"),
	}
}
