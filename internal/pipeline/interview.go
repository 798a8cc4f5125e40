package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgate-backend/internal/audit"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/model"
)

// ScheduleRequest carries the scheduling parameters for an interview.
type ScheduleRequest struct {
	InterviewerID  uuid.UUID
	SchedulingLink string
	ScheduledAt    *time.Time
	SendInvite     bool
}

// ScheduleInterview creates or updates the interview record for an
// ACTIVE application at INTERVIEW. A reschedule with the same
// interviewer updates the open record in place; changing the
// interviewer starts a fresh record so the previous cycle stays on
// file. Optionally sends an invitation email.
func (s *Service) ScheduleInterview(ctx context.Context, applicationID uint, req ScheduleRequest, actor model.User) (*model.Interview, error) {
	if req.InterviewerID == uuid.Nil {
		return nil, &ValidationError{Field: "interviewer_id", Reason: "must be provided"}
	}

	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusActive || app.CurrentStage != model.StageInterview {
		return nil, &StateError{
			Op:             "schedule interview",
			ExpectedStage:  []model.Stage{model.StageInterview},
			ExpectedStatus: []model.Status{model.StatusActive},
			ActualStage:    app.CurrentStage,
			ActualStatus:   app.Status,
		}
	}

	var interview model.Interview
	action := "interview.scheduled"

	var open model.Interview
	err = s.DB.WithContext(ctx).
		Where("application_id = ? AND completed_at IS NULL", app.ID).
		Order("id DESC").
		First(&open).Error
	switch {
	case err == nil && open.InterviewerID == req.InterviewerID:
		// Same interviewer: update in place.
		if updErr := s.DB.WithContext(ctx).Model(&open).Updates(map[string]interface{}{
			"scheduling_link": req.SchedulingLink,
			"scheduled_at":    req.ScheduledAt,
		}).Error; updErr != nil {
			return nil, updErr
		}
		open.SchedulingLink = req.SchedulingLink
		open.ScheduledAt = req.ScheduledAt
		interview = open
		action = "interview.rescheduled"
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		interview = model.Interview{
			ApplicationID:  app.ID,
			InterviewerID:  req.InterviewerID,
			SchedulingLink: req.SchedulingLink,
			ScheduledAt:    req.ScheduledAt,
		}
		if createErr := s.DB.WithContext(ctx).Create(&interview).Error; createErr != nil {
			return nil, createErr
		}
	default:
		return nil, err
	}

	s.Audit.Record(ctx, audit.Entry{
		Action:        action,
		PersonID:      &app.PersonID,
		ApplicationID: &app.ID,
		ActorID:       &actor.ID,
		After:         interview,
	})

	if req.SendInvite {
		s.sendMail(ctx, mailer.TemplateInterviewInvite, app.Person, app.Position, map[string]string{
			"SchedulingLink": req.SchedulingLink,
		})
	}

	return &interview, nil
}

// CompleteInterview records the outcome of an interview. Notes are
// mandatory and completion happens exactly once: notes and the
// completion timestamp are set together.
func (s *Service) CompleteInterview(ctx context.Context, interviewID uint, notes string, outcome string, actor model.User) (*model.Interview, error) {
	cleaned := SanitizeReason(notes)
	if cleaned == "" {
		return nil, &ValidationError{Field: "notes", Reason: "must not be empty"}
	}

	var interview model.Interview
	if err := s.DB.WithContext(ctx).First(&interview, interviewID).Error; err != nil {
		return nil, err
	}
	if interview.CompletedAt != nil {
		return nil, &ConflictError{Op: "complete interview", Reason: "interview is already completed"}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"notes":        cleaned,
		"completed_at": now,
	}
	if outcome != "" {
		updates["outcome"] = outcome
	}

	if err := s.DB.WithContext(ctx).Model(&interview).Updates(updates).Error; err != nil {
		return nil, err
	}
	interview.Notes = cleaned
	interview.CompletedAt = &now
	if outcome != "" {
		interview.Outcome = &outcome
	}

	var app model.Application
	if err := s.DB.WithContext(ctx).First(&app, interview.ApplicationID).Error; err == nil {
		s.Audit.Record(ctx, audit.Entry{
			Action:        "interview.completed",
			PersonID:      &app.PersonID,
			ApplicationID: &app.ID,
			ActorID:       &actor.ID,
			After:         interview,
		})
	}

	return &interview, nil
}
