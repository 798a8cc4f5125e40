package model

import "time"

// Webhook kinds, one per Tally form.
var (
	WebhookApplication = "application"
	WebhookGeneral     = "general-competencies"
	WebhookSpecialized = "specialized-competencies"
	WebhookAgreement   = "agreement"
)

// WebhookEvent records a processed webhook delivery. The composite
// unique index on (kind, tally_submission_id) is the idempotency
// backstop: a concurrent duplicate delivery that races past the read
// check fails here with a unique-constraint violation.
type WebhookEvent struct {
	ID                uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind              string `gorm:"type:text;not null;uniqueIndex:idx_webhook_kind_submission" json:"kind"`
	TallySubmissionID string `gorm:"type:text;not null;uniqueIndex:idx_webhook_kind_submission" json:"tally_submission_id"`

	// EntityID is the id of the entity the delivery created or
	// touched, echoed back on replays.
	EntityID string `gorm:"type:text" json:"entity_id"`

	ReceivedAt time.Time `json:"received_at"`
}
