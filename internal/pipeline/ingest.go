package pipeline

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/tally"
)

// ApplicationOutcome is the result of an application webhook delivery.
type ApplicationOutcome struct {
	Replay        bool      `json:"replay"`
	PersonID      uuid.UUID `json:"person_id"`
	ApplicationID uint      `json:"application_id"`
}

// IngestApplication creates a Person (deduplicated by email) and an
// Application at stage APPLICATION from an application-form webhook.
// Replays of an already-processed submission echo the original
// application id without writing anything.
func (s *Service) IngestApplication(ctx context.Context, rec *tally.ApplicationRecord) (*ApplicationOutcome, error) {
	if ev, err := s.findWebhookEvent(ctx, model.WebhookApplication, rec.SubmissionID); err != nil {
		return nil, err
	} else if ev != nil {
		return s.applicationReplay(ctx, ev)
	}

	var person model.Person
	var app model.Application

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", rec.Email).First(&person).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			person = model.Person{
				Email:     rec.Email,
				FirstName: rec.FirstName,
				LastName:  rec.LastName,
			}
			if rec.Phone != "" {
				person.Phone = &rec.Phone
			}
			if err := tx.Create(&person).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		app = model.Application{
			Position:     rec.Position,
			CurrentStage: model.StageApplication,
			Status:       model.StatusActive,
			PersonID:     person.ID,
		}
		if err := tx.Create(&app).Error; err != nil {
			return err
		}

		// Recording the delivery inside the same transaction means a
		// concurrent duplicate cannot commit a second application: one
		// of the two fails the unique index on (kind, submission id).
		return tx.Create(&model.WebhookEvent{
			Kind:              model.WebhookApplication,
			TallySubmissionID: rec.SubmissionID,
			EntityID:          entityID(app.ID),
			ReceivedAt:        time.Now(),
		}).Error
	})

	if isUniqueViolation(err) {
		ev, findErr := s.findWebhookEvent(ctx, model.WebhookApplication, rec.SubmissionID)
		if findErr == nil && ev != nil {
			return s.applicationReplay(ctx, ev)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.created",
		PersonID:      &person.ID,
		ApplicationID: &app.ID,
		After:         app,
	})

	return &ApplicationOutcome{
		PersonID:      person.ID,
		ApplicationID: app.ID,
	}, nil
}

func (s *Service) applicationReplay(ctx context.Context, ev *model.WebhookEvent) (*ApplicationOutcome, error) {
	appID := parseEntityID(ev.EntityID)
	app, err := s.loadApplication(ctx, appID)
	if err != nil {
		// The application may have been hard-deleted since; the replay
		// is still acknowledged with the original id.
		return &ApplicationOutcome{Replay: true, ApplicationID: appID}, nil
	}
	return &ApplicationOutcome{
		Replay:        true,
		PersonID:      app.PersonID,
		ApplicationID: app.ID,
	}, nil
}

// GeneralOutcome is the result of a general-competencies webhook.
type GeneralOutcome struct {
	Replay       bool      `json:"replay"`
	PersonID     uuid.UUID `json:"person_id"`
	AssessmentID uint      `json:"assessment_id"`
	Passed       bool      `json:"passed"`
	// AdvancedApplications lists the applications the fan-out moved to
	// SPECIALIZED_COMPETENCIES; empty when the score was below
	// threshold.
	AdvancedApplications []uint `json:"advanced_applications"`
	// FlaggedApplications lists the applications left awaiting manual
	// review after a failing score.
	FlaggedApplications []uint `json:"flagged_applications"`
}

// ApplyGeneralResult records a person's general-competencies outcome,
// replacing any previous GENERAL assessment atomically, and fans the
// result out to every ACTIVE application of that person currently at
// APPLICATION or GENERAL_COMPETENCIES. A passing score advances those
// applications to SPECIALIZED_COMPETENCIES; a failing score flags them
// for manual review and never auto-rejects.
func (s *Service) ApplyGeneralResult(ctx context.Context, rec *tally.GeneralResultRecord) (*GeneralOutcome, error) {
	var existing model.Assessment
	err := s.DB.WithContext(ctx).
		Where("tally_submission_id = ?", rec.SubmissionID).
		First(&existing).Error
	if err == nil {
		return &GeneralOutcome{
			Replay:       true,
			PersonID:     existing.PersonID,
			AssessmentID: existing.ID,
			Passed:       existing.Passed != nil && *existing.Passed,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var person model.Person
	if err := s.DB.WithContext(ctx).Where("email = ?", rec.Email).First(&person).Error; err != nil {
		return nil, err
	}

	threshold := s.generalThreshold(ctx)
	passed := rec.Score >= threshold
	now := time.Now()

	assessment := model.Assessment{
		Type:              model.AssessmentGeneral,
		Score:             rec.Score,
		Threshold:         threshold,
		Passed:            &passed,
		RawPayload:        rec.Raw,
		TallySubmissionID: rec.SubmissionID,
		PersonID:          person.ID,
		CompletedAt:       now,
	}

	var candidates []model.Application

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace the previous GENERAL assessment in the same
		// transaction so no concurrent reader observes the person
		// without one.
		if err := tx.Where("person_id = ? AND type = ?", person.ID, model.AssessmentGeneral).
			Delete(&model.Assessment{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Person{}).Where("id = ?", person.ID).Updates(map[string]interface{}{
			"general_score":        rec.Score,
			"general_passed":       passed,
			"general_completed_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where(
			"person_id = ? AND status = ? AND current_stage IN ?",
			person.ID, model.StatusActive,
			[]model.Stage{model.StageApplication, model.StageGeneralCompetencies},
		).Find(&candidates).Error; err != nil {
			return err
		}

		for i := range candidates {
			if passed {
				if err := tx.Model(&candidates[i]).
					Updates(map[string]interface{}{
						"current_stage": model.StageSpecializedCompetencies,
						"needs_review":  false,
					}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&candidates[i]).
					Update("needs_review", true).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})

	if isUniqueViolation(err) {
		// Concurrent duplicate delivery won the race; report its result.
		if findErr := s.DB.WithContext(ctx).
			Where("tally_submission_id = ?", rec.SubmissionID).
			First(&existing).Error; findErr == nil {
			return &GeneralOutcome{
				Replay:       true,
				PersonID:     existing.PersonID,
				AssessmentID: existing.ID,
				Passed:       existing.Passed != nil && *existing.Passed,
			}, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	outcome := &GeneralOutcome{
		PersonID:     person.ID,
		AssessmentID: assessment.ID,
		Passed:       passed,
	}

	for i := range candidates {
		app := candidates[i]
		action := "application.stage_changed"
		if !passed {
			action = "application.flagged_for_review"
		}
		s.Audit.Record(ctx, audit.Entry{
			Action:        action,
			PersonID:      &person.ID,
			ApplicationID: &app.ID,
			Before:        map[string]interface{}{"current_stage": app.CurrentStage, "needs_review": app.NeedsReview},
			After: map[string]interface{}{
				"current_stage": stageAfterGeneral(app.CurrentStage, passed),
				"needs_review":  !passed,
			},
		})
		if passed {
			outcome.AdvancedApplications = append(outcome.AdvancedApplications, app.ID)
		} else {
			outcome.FlaggedApplications = append(outcome.FlaggedApplications, app.ID)
		}
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:   "assessment.general_recorded",
		PersonID: &person.ID,
		After:    assessment,
	})

	if passed {
		link := os.Getenv("SPECIALIZED_FORM_URL")
		for i := range candidates {
			s.sendMail(ctx, mailer.TemplateSpecializedInvite, person, candidates[i].Position, map[string]string{
				"AssessmentLink": link,
			})
		}
	}

	return outcome, nil
}

func stageAfterGeneral(current model.Stage, passed bool) model.Stage {
	if passed {
		return model.StageSpecializedCompetencies
	}
	return current
}

// SpecializedOutcome is the result of a specialized-competencies webhook.
type SpecializedOutcome struct {
	Replay        bool `json:"replay"`
	AssessmentID  uint `json:"assessment_id"`
	ApplicationID uint `json:"application_id"`
}

// RecordSpecializedSubmission stores an application-scoped specialized
// assessment awaiting manual review. It never advances the pipeline:
// an admin must mark pass/fail explicitly before the application can
// move to INTERVIEW.
func (s *Service) RecordSpecializedSubmission(ctx context.Context, rec *tally.SpecializedRecord) (*SpecializedOutcome, error) {
	var existing model.Assessment
	err := s.DB.WithContext(ctx).
		Where("tally_submission_id = ?", rec.SubmissionID).
		First(&existing).Error
	if err == nil {
		return &SpecializedOutcome{
			Replay:        true,
			AssessmentID:  existing.ID,
			ApplicationID: rec.ApplicationID,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app, err := s.loadApplication(ctx, rec.ApplicationID)
	if err != nil {
		return nil, err
	}

	assessment := model.Assessment{
		Type:              model.AssessmentSpecialized,
		Competency:        rec.Competency,
		Score:             rec.Score,
		Threshold:         s.competencyThreshold(ctx, rec.Competency),
		RawPayload:        rec.Raw,
		TallySubmissionID: rec.SubmissionID,
		PersonID:          app.PersonID,
		ApplicationID:     &app.ID,
		CompletedAt:       time.Now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A re-submission for the same competency replaces the prior
		// record and resets it to unreviewed.
		var prior model.Assessment
		err := tx.Where(
			"application_id = ? AND type = ? AND competency = ?",
			app.ID, model.AssessmentSpecialized, rec.Competency,
		).First(&prior).Error
		switch {
		case err == nil:
			assessment.ID = prior.ID
			assessment.CreatedAt = prior.CreatedAt
			return tx.Save(&assessment).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&assessment).Error
		default:
			return err
		}
	})

	if isUniqueViolation(err) {
		if findErr := s.DB.WithContext(ctx).
			Where("tally_submission_id = ?", rec.SubmissionID).
			First(&existing).Error; findErr == nil {
			return &SpecializedOutcome{
				Replay:        true,
				AssessmentID:  existing.ID,
				ApplicationID: rec.ApplicationID,
			}, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "assessment.specialized_recorded",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		After:         assessment,
	})

	return &SpecializedOutcome{
		AssessmentID:  assessment.ID,
		ApplicationID: app.ID,
	}, nil
}

// AgreementOutcome is the result of an agreement-signing webhook.
type AgreementOutcome struct {
	Replay        bool `json:"replay"`
	NoOp          bool `json:"no_op"`
	ApplicationID uint `json:"application_id"`
}

// IngestAgreement stores the signed-agreement payload and advances the
// application to SIGNED. It is valid only when the application is
// ACCEPTED at AGREEMENT; if the offer has since been withdrawn the
// delivery is acknowledged as a successful no-op so the vendor stops
// retrying.
func (s *Service) IngestAgreement(ctx context.Context, rec *tally.AgreementRecord) (*AgreementOutcome, error) {
	if ev, err := s.findWebhookEvent(ctx, model.WebhookAgreement, rec.SubmissionID); err != nil {
		return nil, err
	} else if ev != nil {
		return &AgreementOutcome{Replay: true, ApplicationID: parseEntityID(ev.EntityID)}, nil
	}

	app, err := s.loadApplication(ctx, rec.ApplicationID)
	if err != nil {
		return nil, err
	}

	event := model.WebhookEvent{
		Kind:              model.WebhookAgreement,
		TallySubmissionID: rec.SubmissionID,
		EntityID:          entityID(app.ID),
		ReceivedAt:        time.Now(),
	}

	// Offer withdrawn or application soft-deleted after the form went
	// out: acknowledge and move on.
	if app.Status == model.StatusRejected || app.Status == model.StatusWithdrawn {
		if err := s.DB.WithContext(ctx).Create(&event).Error; err != nil && !isUniqueViolation(err) {
			return nil, err
		}
		return &AgreementOutcome{NoOp: true, ApplicationID: app.ID}, nil
	}

	if app.Status != model.StatusAccepted || app.CurrentStage != model.StageAgreement {
		return nil, &StateError{
			Op:             "sign agreement",
			ExpectedStage:  []model.Stage{model.StageAgreement},
			ExpectedStatus: []model.Status{model.StatusAccepted},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}

	before := *app
	now := time.Now()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(app).Updates(map[string]interface{}{
			"agreement_payload":   rec.Raw,
			"agreement_signed_at": now,
			"current_stage":       model.StageSigned,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})

	if isUniqueViolation(err) {
		return &AgreementOutcome{Replay: true, ApplicationID: app.ID}, nil
	}
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.agreement_signed",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		Before:        map[string]interface{}{"current_stage": before.CurrentStage},
		After:         map[string]interface{}{"current_stage": model.StageSigned},
	})

	return &AgreementOutcome{ApplicationID: app.ID}, nil
}

// sendMail fires a best-effort templated email to the person, merging
// extra vars over the standard person/position set.
func (s *Service) sendMail(ctx context.Context, template string, person model.Person, position string, extra map[string]string) {
	vars := map[string]string{
		"FirstName": person.FirstName,
		"LastName":  person.LastName,
		"Position":  position,
	}
	for k, v := range extra {
		vars[k] = v
	}
	if _, err := s.Mail.Send(ctx, template, vars, person.Email); err != nil {
		log.Printf("failed to send %s email to %s: %v", template, person.Email, err)
	}
}
