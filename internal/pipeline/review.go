package pipeline

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/model"
)

// ReviewSpecialized marks a specialized assessment passed or failed.
// Specialized results are never computed: an admin reviews them, and a
// passing review is the gate for moving the application to INTERVIEW.
func (s *Service) ReviewSpecialized(ctx context.Context, assessmentID uint, passed bool, actor model.User) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := s.DB.WithContext(ctx).First(&assessment, assessmentID).Error; err != nil {
		return nil, err
	}
	if assessment.Type != model.AssessmentSpecialized {
		return nil, &ValidationError{Field: "assessment", Reason: "only specialized assessments are reviewed manually"}
	}

	before := assessment

	if err := s.DB.WithContext(ctx).Model(&assessment).Updates(map[string]interface{}{
		"passed":      passed,
		"reviewed_by": actor.ID,
	}).Error; err != nil {
		return nil, err
	}
	assessment.Passed = &passed
	assessment.ReviewedBy = &actor.ID

	s.Audit.Record(ctx, audit.Entry{
		Action:        "assessment.reviewed",
		PersonID:      &assessment.PersonID,
		ApplicationID: assessment.ApplicationID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"passed": before.Passed},
		After:         map[string]interface{}{"passed": passed},
	})

	return &assessment, nil
}

// AdvanceToInterview moves an ACTIVE application from
// SPECIALIZED_COMPETENCIES to INTERVIEW. It requires at least one
// specialized assessment reviewed as passed.
func (s *Service) AdvanceToInterview(ctx context.Context, applicationID uint, actor model.User) (*model.Application, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusActive || app.CurrentStage != model.StageSpecializedCompetencies {
		return nil, &StateError{
			Op:             "advance to interview",
			ExpectedStage:  []model.Stage{model.StageSpecializedCompetencies},
			ExpectedStatus: []model.Status{model.StatusActive},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}

	var passedAssessment model.Assessment
	err = s.DB.WithContext(ctx).
		Where("application_id = ? AND type = ? AND passed = ?", app.ID, model.AssessmentSpecialized, true).
		First(&passedAssessment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ConflictError{Op: "advance to interview", Reason: "no specialized assessment has been reviewed as passed"}
	}
	if err != nil {
		return nil, err
	}

	before := app.CurrentStage
	if err := s.DB.WithContext(ctx).Model(app).
		Update("current_stage", model.StageInterview).Error; err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        "application.stage_changed",
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		Before:        map[string]interface{}{"current_stage": before},
		After:         map[string]interface{}{"current_stage": model.StageInterview},
	})

	return s.loadApplication(ctx, app.ID)
}
