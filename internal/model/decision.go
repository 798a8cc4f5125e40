package model

import (
	"time"

	"github.com/google/uuid"
)

// Decision types.
var (
	DecisionAccept = "ACCEPT"
	DecisionReject = "REJECT"
)

// NoteOfferWithdrawn distinguishes the compensating REJECT decision
// recorded when an accepted offer is withdrawn.
var NoteOfferWithdrawn = "offer withdrawn"

// Decision is a terminal accept/reject determination recorded against
// an application. Reasons are mandatory for compliance. At most one
// decision exists per application under normal flow; a withdrawal adds
// a second REJECT decision carrying NoteOfferWithdrawn.
type Decision struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Type   string `gorm:"type:text;not null" json:"type"`
	Reason string `gorm:"type:text;not null" json:"reason"`
	Note   string `gorm:"type:text" json:"note"`

	// ApplicationID references Application.ID
	ApplicationID uint        `gorm:"not null;index" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`

	// DeciderID references User.ID
	DeciderID uuid.UUID `gorm:"type:uuid;not null" json:"decider_id"`
	Decider   User      `gorm:"foreignKey:DeciderID;references:ID" json:"-"`

	DecidedAt time.Time `json:"decided_at"`
	CreatedAt time.Time `json:"created_at"`
}
