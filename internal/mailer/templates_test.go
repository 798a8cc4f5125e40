package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOfferLetter(t *testing.T) {
	subject, body, err := Render(TemplateOfferLetter, map[string]string{
		"FirstName": "Jane",
		"Position":  "Backend Engineer",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "Backend Engineer")
	assert.Contains(t, body, "Dear Jane,")
	assert.Contains(t, body, "offer you the Backend Engineer position")
}

func TestRenderInterviewInviteIncludesLink(t *testing.T) {
	_, body, err := Render(TemplateInterviewInvite, map[string]string{
		"FirstName":      "Jane",
		"Position":       "Backend Engineer",
		"SchedulingLink": "https://cal.example.com/slot",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "https://cal.example.com/slot")
}

func TestRenderSpecializedInviteIncludesLink(t *testing.T) {
	_, body, err := Render(TemplateSpecializedInvite, map[string]string{
		"FirstName":      "Jane",
		"Position":       "Backend Engineer",
		"AssessmentLink": "https://forms.example.com/specialized",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "https://forms.example.com/specialized")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, err := Render("no-such-template", nil)
	assert.Error(t, err)
}
