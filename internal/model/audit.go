package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a mutation: who did what,
// with entity state before and after. Writes are best-effort and never
// roll back the business mutation they describe.
type AuditLog struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Action string `gorm:"type:text;not null;index" json:"action"`

	PersonID      *uuid.UUID `gorm:"type:uuid;index" json:"person_id"`
	ApplicationID *uint      `gorm:"index" json:"application_id"`
	ActorID       *uuid.UUID `gorm:"type:uuid" json:"actor_id"`

	Before []byte `gorm:"type:jsonb" json:"before,omitempty"`
	After  []byte `gorm:"type:jsonb" json:"after,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EmailLog is an append-only record of an email send attempt.
type EmailLog struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Template  string `gorm:"type:text;not null" json:"template"`
	Recipient string `gorm:"type:text;not null;index" json:"recipient"`
	Subject   string `json:"subject"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
