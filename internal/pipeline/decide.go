package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/model"
)

// Accept records an ACCEPT decision on an ACTIVE application at any
// stage, advances it to AGREEMENT and marks it ACCEPTED. The offer
// letter is a mandatory side effect; its delivery failure is logged
// but does not roll the decision back.
func (s *Service) Accept(ctx context.Context, applicationID uint, actor model.User, reason string) (*model.Application, error) {
	cleaned, err := requireReason(reason)
	if err != nil {
		return nil, err
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusActive {
		return nil, &StateError{
			Op:             "accept",
			ExpectedStatus: []model.Status{model.StatusActive},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}
	if err := s.requireNoDecision(ctx, app.ID, "accept"); err != nil {
		return nil, err
	}

	before := *app
	decision := model.Decision{
		Type:          model.DecisionAccept,
		Reason:        cleaned,
		ApplicationID: app.ID,
		DeciderID:     actor.ID,
		DecidedAt:     time.Now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&decision).Error; err != nil {
			return err
		}
		return tx.Model(app).Updates(map[string]interface{}{
			"current_stage": model.StageAgreement,
			"status":        model.StatusAccepted,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.accepted",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"current_stage": before.CurrentStage, "status": before.Status},
		After:         map[string]interface{}{"current_stage": model.StageAgreement, "status": model.StatusAccepted},
	})

	// Offer letter is not optional for acceptances.
	s.sendMail(ctx, mailer.TemplateOfferLetter, app.Person, app.Position, nil)

	return s.loadApplication(ctx, app.ID)
}

// Reject records a REJECT decision with a mandatory reason, marks the
// application REJECTED and leaves its stage where it was. The
// rejection email is optional.
func (s *Service) Reject(ctx context.Context, applicationID uint, actor model.User, reason string, notify bool) (*model.Application, error) {
	cleaned, err := requireReason(reason)
	if err != nil {
		return nil, err
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusActive {
		return nil, &StateError{
			Op:             "reject",
			ExpectedStatus: []model.Status{model.StatusActive},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}
	if err := s.requireNoDecision(ctx, app.ID, "reject"); err != nil {
		return nil, err
	}

	before := *app
	decision := model.Decision{
		Type:          model.DecisionReject,
		Reason:        cleaned,
		ApplicationID: app.ID,
		DeciderID:     actor.ID,
		DecidedAt:     time.Now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&decision).Error; err != nil {
			return err
		}
		return tx.Model(app).Update("status", model.StatusRejected).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.rejected",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"status": before.Status},
		After:         map[string]interface{}{"status": model.StatusRejected},
	})

	if notify {
		s.sendMail(ctx, mailer.TemplateRejection, app.Person, app.Position, nil)
	}

	return s.loadApplication(ctx, app.ID)
}

// WithdrawOffer reverses an accepted offer: valid only for an ACCEPTED
// application at AGREEMENT, it records a second REJECT decision with a
// distinguishing note and moves status to REJECTED while the stage
// stays at AGREEMENT. This is the only backward-moving status
// transition in the pipeline.
func (s *Service) WithdrawOffer(ctx context.Context, applicationID uint, actor model.User, reason string, notify bool) (*model.Application, error) {
	cleaned, err := requireReason(reason)
	if err != nil {
		return nil, err
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusAccepted || app.CurrentStage != model.StageAgreement {
		return nil, &StateError{
			Op:             "withdraw offer",
			ExpectedStage:  []model.Stage{model.StageAgreement},
			ExpectedStatus: []model.Status{model.StatusAccepted},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}

	before := *app
	decision := model.Decision{
		Type:          model.DecisionReject,
		Reason:        cleaned,
		Note:          model.NoteOfferWithdrawn,
		ApplicationID: app.ID,
		DeciderID:     actor.ID,
		DecidedAt:     time.Now(),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&decision).Error; err != nil {
			return err
		}
		return tx.Model(app).Update("status", model.StatusRejected).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.offer_withdrawn",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"status": before.Status},
		After:         map[string]interface{}{"status": model.StatusRejected},
	})

	if notify {
		s.sendMail(ctx, mailer.TemplateRejection, app.Person, app.Position, nil)
	}

	return s.loadApplication(ctx, app.ID)
}

// requireNoDecision enforces the at-most-one-decision invariant for
// the normal accept/reject flow.
func (s *Service) requireNoDecision(ctx context.Context, applicationID uint, op string) error {
	var existing model.Decision
	err := s.DB.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&existing).Error
	if err == nil {
		return &ConflictError{Op: op, Reason: "a decision already exists for this application"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("failed to check existing decision: %v", err)
		return err
	}
	return nil
}
