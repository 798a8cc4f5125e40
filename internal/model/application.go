package model

import (
	"time"

	"github.com/google/uuid"
)

// Application represents one person's candidacy for one position.
type Application struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Position     string `gorm:"type:text;not null" json:"position"`
	CurrentStage Stage  `gorm:"type:text;not null" json:"current_stage"`
	Status       Status `gorm:"type:text;not null" json:"status"`

	// NeedsReview is set when the person failed general competencies
	// and the application awaits a manual admin decision.
	NeedsReview bool `json:"needs_review"`

	// AgreementPayload holds the signed-agreement submission once the
	// agreement webhook lands.
	AgreementPayload  []byte     `gorm:"type:jsonb" json:"agreement_payload,omitempty"`
	AgreementSignedAt *time.Time `json:"agreement_signed_at"`

	// PersonID references Person.ID (uuid)
	PersonID uuid.UUID `gorm:"type:uuid;not null;index" json:"person_id"`
	Person   Person    `gorm:"foreignKey:PersonID;references:ID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assessments []Assessment `gorm:"foreignKey:ApplicationID" json:"assessments,omitempty"`
	Interviews  []Interview  `gorm:"foreignKey:ApplicationID" json:"interviews,omitempty"`
	Decisions   []Decision   `gorm:"foreignKey:ApplicationID" json:"decisions,omitempty"`
}

// ApplicationUpdate is the closed set of admin-updatable application
// fields. Nil fields are left untouched. Stage and status here are the
// explicit admin override path and skip the monotonicity rule.
type ApplicationUpdate struct {
	Position     *string `json:"position"`
	CurrentStage *Stage  `json:"current_stage"`
	Status       *Status `json:"status"`
	NeedsReview  *bool   `json:"needs_review"`
}
