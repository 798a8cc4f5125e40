package pipeline

import (
	"context"

	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/model"
)

// UpdateApplication applies the closed set of admin-updatable fields.
// Stage and status set here are the explicit admin override path; they
// are validated against the known values but skip the monotonicity
// rule.
func (s *Service) UpdateApplication(ctx context.Context, applicationID uint, upd model.ApplicationUpdate, actor model.User) (*model.Application, error) {
	if upd.CurrentStage != nil && !upd.CurrentStage.Valid() {
		return nil, &ValidationError{Field: "current_stage", Reason: "unknown stage"}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Position != nil {
		updates["position"] = *upd.Position
	}
	if upd.CurrentStage != nil {
		updates["current_stage"] = *upd.CurrentStage
	}
	if upd.Status != nil {
		updates["status"] = *upd.Status
	}
	if upd.NeedsReview != nil {
		updates["needs_review"] = *upd.NeedsReview
	}
	if len(updates) == 0 {
		return app, nil
	}

	before := *app
	if err := s.DB.WithContext(ctx).Model(app).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.updated",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        before,
		After:         updates,
	})

	return s.loadApplication(ctx, app.ID)
}

// SoftDelete marks the application withdrawn. Reversible only by admin
// edit of the status field.
func (s *Service) SoftDelete(ctx context.Context, applicationID uint, actor model.User) error {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return err
	}

	before := app.Status
	if err := s.DB.WithContext(ctx).Model(app).
		Update("status", model.StatusWithdrawn).Error; err != nil {
		return err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.withdrawn",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"status": before},
		After:         map[string]interface{}{"status": model.StatusWithdrawn},
	})

	return nil
}

// HardDelete removes the application and all its child records,
// children before parent, in one transaction. Irreversible.
func (s *Service) HardDelete(ctx context.Context, applicationID uint, actor model.User) error {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", app.ID).Delete(&model.Assessment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", app.ID).Delete(&model.Interview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", app.ID).Delete(&model.Decision{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Application{}, app.ID).Error
	})
	if err != nil {
		return err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.hard_deleted",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        *app,
	})

	return nil
}
