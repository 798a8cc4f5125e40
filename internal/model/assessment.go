package model

import (
	"time"

	"github.com/google/uuid"
)

// Assessment types.
var (
	// AssessmentGeneral is the person-scoped general-competencies test
	AssessmentGeneral = "GENERAL"
	// AssessmentSpecialized is an application-scoped specialized-competencies test
	AssessmentSpecialized = "SPECIALIZED"
)

// Assessment is a scored evaluation, either person-scoped (general
// competencies) or application-scoped (specialized competencies).
// The unique index on TallySubmissionID is the idempotency backstop
// for assessment webhooks.
type Assessment struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type       string  `gorm:"type:text;not null" json:"type"`
	Competency string  `gorm:"type:text" json:"competency"`
	Score      float64 `json:"score"`
	Threshold  float64 `json:"threshold"`

	// Passed is computed for GENERAL assessments and nil for
	// SPECIALIZED ones until an admin reviews them.
	Passed     *bool      `json:"passed"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`

	RawPayload        []byte `gorm:"type:jsonb" json:"-"`
	TallySubmissionID string `gorm:"type:text;not null;uniqueIndex" json:"tally_submission_id"`

	// PersonID references Person.ID
	PersonID uuid.UUID `gorm:"type:uuid;not null;index" json:"person_id"`
	Person   Person    `gorm:"foreignKey:PersonID;references:ID" json:"-"`

	// ApplicationID is set only for SPECIALIZED assessments
	ApplicationID *uint        `gorm:"index" json:"application_id"`
	Application   *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
