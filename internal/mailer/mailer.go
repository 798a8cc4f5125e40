// Package mailer sends templated transactional email through the mail
// provider's HTTP API. Sends are best-effort: every attempt is recorded
// in the email log and callers are free to ignore failures.
package mailer

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	// Load env
	_ "github.com/joho/godotenv/autoload"

	"talentgate-backend/internal/database"
	"talentgate-backend/internal/model"
)

// SendResult mirrors the provider's response for one send attempt.
type SendResult struct {
	Success   bool   `json:"success"`
	Queued    bool   `json:"queued"`
	MessageID string `json:"message_id"`
}

// Sender is the email collaborator the pipeline calls into.
type Sender interface {
	Send(ctx context.Context, template string, vars map[string]string, recipient string) (*SendResult, error)
}

// APIMailer sends mail through a transactional-mail HTTP API and
// records every attempt in the EmailLog table.
type APIMailer struct {
	DB     *database.DBinstanceStruct
	client *resty.Client
	from   string
}

// NewAPIMailer builds a mailer from MAIL_API_URL, MAIL_API_KEY and
// MAIL_FROM environment variables.
func NewAPIMailer(db *database.DBinstanceStruct) *APIMailer {
	client := resty.New().
		SetBaseURL(os.Getenv("MAIL_API_URL")).
		SetAuthToken(os.Getenv("MAIL_API_KEY")).
		SetTimeout(10 * time.Second)

	return &APIMailer{
		DB:     db,
		client: client,
		from:   os.Getenv("MAIL_FROM"),
	}
}

type mailRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
}

type mailResponse struct {
	MessageID string `json:"message_id"`
	Queued    bool   `json:"queued"`
}

// Send renders the named template with vars and posts it to the mail
// provider. The attempt is logged to EmailLog whether or not it
// succeeds; the returned error is informational for callers that care.
func (m *APIMailer) Send(ctx context.Context, template string, vars map[string]string, recipient string) (*SendResult, error) {
	subject, body, err := Render(template, vars)
	if err != nil {
		m.logAttempt(template, recipient, "", false, "", err)
		return nil, err
	}

	var parsed mailResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(mailRequest{
			From:     m.from,
			To:       recipient,
			Subject:  subject,
			TextBody: body,
		}).
		SetResult(&parsed).
		Post("/v1/messages")

	if err != nil {
		m.logAttempt(template, recipient, subject, false, "", err)
		return nil, err
	}
	if resp.IsError() {
		sendErr := fmt.Errorf("mail API returned status %d", resp.StatusCode())
		m.logAttempt(template, recipient, subject, false, "", sendErr)
		return nil, sendErr
	}

	m.logAttempt(template, recipient, subject, true, parsed.MessageID, nil)

	return &SendResult{
		Success:   true,
		Queued:    parsed.Queued,
		MessageID: parsed.MessageID,
	}, nil
}

func (m *APIMailer) logAttempt(template, recipient, subject string, success bool, messageID string, sendErr error) {
	entry := model.EmailLog{
		Template:  template,
		Recipient: recipient,
		Subject:   subject,
		Success:   success,
		MessageID: messageID,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if err := m.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to record email log for %s: %v", recipient, err)
	}
}
