package mailer

import "github.com/oksasatya/profolio/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// A job carries either rendered bodies or a Template name with its Data.
type EmailJob struct {
	To       string         `json:"to"`
	FromName string         `json:"from_name,omitempty"`
	ReplyTo  string         `json:"reply_to,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "contact_message"
	Data     map[string]any `json:"data,omitempty"`
}

// Message returns the job as an outbound message, rendering its template
// when one is set.
func (j EmailJob) Message() (Message, error) {
	m := Message{To: j.To, FromName: j.FromName, ReplyTo: j.ReplyTo, Subject: j.Subject, Text: j.Text, HTML: j.HTML}
	if j.Template == "" {
		return m, nil
	}
	s, t, h, err := templates.Render(j.Template, j.Data)
	if err != nil {
		return Message{}, err
	}
	m.Subject, m.Text, m.HTML = s, t, h
	return m, nil
}
