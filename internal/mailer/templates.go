package mailer

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names the pipeline sends with.
const (
	TemplateOfferLetter       = "offer-letter"
	TemplateRejection         = "rejection"
	TemplateInterviewInvite   = "interview-invite"
	TemplateSpecializedInvite = "specialized-invite"
)

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplateOfferLetter: {
		subject: template.Must(template.New("s").Parse(`Your offer for the {{.Position}} position`)),
		body: template.Must(template.New("b").Parse(`Dear {{.FirstName}},

We are delighted to offer you the {{.Position}} position. You will
shortly receive the agreement form to review and sign.

Best regards,
The Recruitment Team`)),
	},
	TemplateRejection: {
		subject: template.Must(template.New("s").Parse(`Update on your application for {{.Position}}`)),
		body: template.Must(template.New("b").Parse(`Dear {{.FirstName}},

Thank you for your interest in the {{.Position}} position. After
careful consideration we have decided not to move forward with your
application at this time.

Best regards,
The Recruitment Team`)),
	},
	TemplateInterviewInvite: {
		subject: template.Must(template.New("s").Parse(`Interview invitation: {{.Position}}`)),
		body: template.Must(template.New("b").Parse(`Dear {{.FirstName}},

We would like to invite you to an interview for the {{.Position}}
position. Please pick a slot here: {{.SchedulingLink}}

Best regards,
The Recruitment Team`)),
	},
	TemplateSpecializedInvite: {
		subject: template.Must(template.New("s").Parse(`Next step: specialized assessment for {{.Position}}`)),
		body: template.Must(template.New("b").Parse(`Dear {{.FirstName}},

Congratulations on passing the general competencies assessment. The
next step for the {{.Position}} position is a specialized assessment:
{{.AssessmentLink}}

Best regards,
The Recruitment Team`)),
	},
}

// Render produces the subject and body for the named template.
func Render(name string, vars map[string]string) (string, string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, vars); err != nil {
		return "", "", err
	}
	if err := tpl.body.Execute(&body, vars); err != nil {
		return "", "", err
	}
	return subject.String(), body.String(), nil
}
