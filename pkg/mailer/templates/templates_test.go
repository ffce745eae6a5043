package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContactMessage(t *testing.T) {
	d := NewContactData("", "My Work", "Sam <script>", "sam@example.com", "Hello there!", time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC))
	subject, text, html, err := Render(ContactMessage, d)
	require.NoError(t, err)

	assert.Equal(t, "New Message from Sam <script> about one of your Pro-folios!", subject)
	assert.Contains(t, text, "on Pro-folio.")
	assert.Contains(t, text, "29 February 2024, 10:00 UTC")
	assert.Contains(t, html, "Sam &lt;script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestRenderFromJobData(t *testing.T) {
	data := ToMap(NewContactData("Profolio", "P", "Ana", "ana@example.com", "Hi!", time.Now()))
	subject, _, _, err := Render(ContactMessage, data)
	require.NoError(t, err)
	assert.Equal(t, "New Message from Ana about one of your Pro-folios!", subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("password_reset", nil)
	assert.ErrorContains(t, err, "unknown template")
}
