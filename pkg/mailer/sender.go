package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/profolio/pkg/mailer/templates"
)

// Message is one outbound email.
type Message struct {
	To       string
	FromName string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Publisher is the queue side of QueueSender.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueSender hands messages to the email worker through RabbitMQ.
type QueueSender struct {
	Pub Publisher
}

func NewQueueSender(pub Publisher) *QueueSender { return &QueueSender{Pub: pub} }

func (q *QueueSender) Send(ctx context.Context, m Message) error {
	if q.Pub == nil {
		return errors.New("mail queue not configured")
	}
	return q.Pub.PublishJSON(ctx, EmailJob{
		To:       m.To,
		FromName: m.FromName,
		ReplyTo:  m.ReplyTo,
		Subject:  m.Subject,
		Text:     m.Text,
		HTML:     m.HTML,
	})
}

// NoopSender logs instead of sending. Used when MAIL_SEND_ENABLED=false.
type NoopSender struct {
	Logger *logrus.Logger
}

func (n NoopSender) Send(_ context.Context, m Message) error {
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"to": m.To, "subject": m.Subject}).Info("mail sending disabled; message dropped")
	}
	return nil
}

// ContactEmail renders the owner notification for a contact-form message.
// Replies go straight to the sender.
func ContactEmail(appName, to, portfolioTitle, senderName, senderEmail, body string, sentAt time.Time) (Message, error) {
	data := templates.NewContactData(appName, portfolioTitle, senderName, senderEmail, body, sentAt)
	subject, text, html, err := templates.Render(templates.ContactMessage, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		FromName: senderName,
		ReplyTo:  senderEmail,
		Subject:  subject,
		Text:     text,
		HTML:     html,
	}, nil
}
