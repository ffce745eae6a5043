package mailer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/profolio/pkg/mailer/templates"
)

type capturePublisher struct{ bodies [][]byte }

func (c *capturePublisher) PublishJSON(_ context.Context, body any) error {
	b, err := json.Marshal(body)
	c.bodies = append(c.bodies, b)
	return err
}

func TestContactEmail(t *testing.T) {
	m, err := ContactEmail("Profolio", "owner@example.com", "My Work", "Sam Smith", "sam@example.com", "Hello there!", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", m.To)
	assert.Equal(t, "sam@example.com", m.ReplyTo)
	assert.Equal(t, "Sam Smith", m.FromName)
	assert.Equal(t, "New Message from Sam Smith about one of your Pro-folios!", m.Subject)
	assert.Contains(t, m.Text, "Hello there!")
}

func TestQueueSenderRoundTripsThroughWorkerJob(t *testing.T) {
	pub := &capturePublisher{}
	in := Message{To: "a@example.com", FromName: "Sam", ReplyTo: "s@example.com", Subject: "Hi", Text: "body"}
	require.NoError(t, NewQueueSender(pub).Send(context.Background(), in))
	require.Len(t, pub.bodies, 1)

	var job EmailJob
	require.NoError(t, json.Unmarshal(pub.bodies[0], &job))
	out, err := job.Message()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTemplateJob(t *testing.T) {
	job := EmailJob{
		To:       "owner@example.com",
		Template: templates.ContactMessage,
		Data:     templates.ToMap(templates.NewContactData("Profolio", "P", "Ana", "ana@example.com", "Hi there", time.Now())),
	}
	m, err := job.Message()
	require.NoError(t, err)
	assert.Equal(t, "New Message from Ana about one of your Pro-folios!", m.Subject)

	job.Template = "missing"
	_, err = job.Message()
	assert.Error(t, err)

	assert.Error(t, (&QueueSender{}).Send(context.Background(), Message{}))
}
