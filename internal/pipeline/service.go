// Package pipeline implements the application pipeline state machine:
// the ordered stages an application moves through, the webhook-driven
// and admin-driven transitions between them, and the audit and email
// side effects those transitions trigger.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/model"
)

// defaultGeneralThreshold applies when no GENERAL competency
// definition has been configured.
const defaultGeneralThreshold = 70.0

// Service executes pipeline transitions against the database and emits
// audit records and best-effort email for each one.
type Service struct {
	DB    *database.DBinstanceStruct
	Audit *audit.Recorder
	Mail  mailer.Sender
}

// New creates a pipeline Service.
func New(db *database.DBinstanceStruct, rec *audit.Recorder, mail mailer.Sender) *Service {
	return &Service{
		DB:    db,
		Audit: rec,
		Mail:  mail,
	}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Dedup relies on this as the backstop when a duplicate
// delivery races past the read check.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// findWebhookEvent returns the processed-delivery record for the given
// kind and submission id, or nil when the delivery is new.
func (s *Service) findWebhookEvent(ctx context.Context, kind string, submissionID string) (*model.WebhookEvent, error) {
	var ev model.WebhookEvent
	err := s.DB.WithContext(ctx).
		Where("kind = ? AND tally_submission_id = ?", kind, submissionID).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// generalThreshold reads the configured GENERAL pass threshold.
func (s *Service) generalThreshold(ctx context.Context) float64 {
	var def model.CompetencyDefinition
	err := s.DB.WithContext(ctx).
		Where("type = ?", model.AssessmentGeneral).
		First(&def).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("failed to load general competency definition: %v", err)
		}
		return defaultGeneralThreshold
	}
	return def.PassThreshold
}

// competencyThreshold reads the configured threshold for a named
// specialized competency, zero when undefined.
func (s *Service) competencyThreshold(ctx context.Context, name string) float64 {
	var def model.CompetencyDefinition
	err := s.DB.WithContext(ctx).Where("name = ?", name).First(&def).Error
	if err != nil {
		return 0
	}
	return def.PassThreshold
}

// loadApplication fetches an application with its person preloaded.
func (s *Service) loadApplication(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := s.DB.WithContext(ctx).Preload("Person").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func entityID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseEntityID(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 64)
	return uint(id)
}
