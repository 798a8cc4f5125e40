package model

import (
	"time"

	"github.com/google/uuid"
)

// Interview outcomes.
var (
	InterviewOutcomePositive = "POSITIVE"
	InterviewOutcomeNegative = "NEGATIVE"
	InterviewOutcomeNoShow   = "NO_SHOW"
)

// Interview is one scheduling/record cycle for an application. Notes
// and CompletedAt are set together, exactly once, by the complete
// action. A reschedule creates a new record only when the interviewer
// changes; otherwise the record is updated in place.
type Interview struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// ApplicationID references Application.ID
	ApplicationID uint        `gorm:"not null;index" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	// InterviewerID references User.ID
	InterviewerID uuid.UUID `gorm:"type:uuid;not null" json:"interviewer_id"`
	Interviewer   User      `gorm:"foreignKey:InterviewerID;references:ID" json:"-"`

	SchedulingLink string     `json:"scheduling_link"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
	CompletedAt    *time.Time `json:"completed_at"`
	Notes          string     `gorm:"type:text" json:"notes"`
	Outcome        *string    `json:"outcome"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
