package model

import (
	"time"

	"github.com/lib/pq"
)

// CompetencyDefinition describes a scored competency and the positions
// it applies to. The pass threshold of the GENERAL definition gates the
// general-competencies fan-out.
type CompetencyDefinition struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string         `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Type          string         `gorm:"type:text;not null" json:"type"`
	PassThreshold float64        `json:"pass_threshold"`
	Positions     pq.StringArray `gorm:"type:text[]" json:"positions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompetencyUpdate is the closed set of updatable competency fields.
type CompetencyUpdate struct {
	Name          *string         `json:"name"`
	PassThreshold *float64        `json:"pass_threshold"`
	Positions     *pq.StringArray `json:"positions"`
}
