package model

import (
	"time"

	"github.com/google/uuid"
)

// Person is a deduplicated candidate, keyed by email. A person can hold
// many applications but at most one general-competencies outcome.
type Person struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone"`

	// Latest general-competencies outcome, mirrored from the live
	// GENERAL assessment for cheap reads. Replaced atomically on
	// re-submission.
	GeneralScore       *float64   `json:"general_score"`
	GeneralPassed      *bool      `json:"general_passed"`
	GeneralCompletedAt *time.Time `json:"general_completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applications []Application `gorm:"foreignKey:PersonID" json:"applications,omitempty"`
}
