// Package audit records who changed what as append-only log rows.
// Recording is fire-and-log: a failed audit write never propagates to
// the business mutation it describes.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"talentgate-backend/internal/database"
	"talentgate-backend/internal/model"
)

// Entry describes one mutation to record.
type Entry struct {
	Action        string
	PersonID      *uuid.UUID
	ApplicationID *uint
	ActorID       *uuid.UUID
	Before        interface{}
	After         interface{}
}

// Recorder writes audit entries to the database.
type Recorder struct {
	DB *database.DBinstanceStruct
}

// NewRecorder creates a Recorder bound to the given database.
func NewRecorder(db *database.DBinstanceStruct) *Recorder {
	return &Recorder{DB: db}
}

// Record persists the entry. Marshalling or insert failures are logged
// and swallowed.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	row := model.AuditLog{
		Action:        e.Action,
		PersonID:      e.PersonID,
		ApplicationID: e.ApplicationID,
		ActorID:       e.ActorID,
		CreatedAt:     time.Now(),
	}

	if e.Before != nil {
		b, err := json.Marshal(e.Before)
		if err != nil {
			log.Printf("audit: failed to marshal before state for %s: %v", e.Action, err)
		} else {
			row.Before = b
		}
	}
	if e.After != nil {
		b, err := json.Marshal(e.After)
		if err != nil {
			log.Printf("audit: failed to marshal after state for %s: %v", e.Action, err)
		} else {
			row.After = b
		}
	}

	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("audit: failed to record %s: %v", e.Action, err)
	}
}
