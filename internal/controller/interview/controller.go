// Package interview provides HTTP handlers for interview scheduling
// and completion.
package interview

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/utilities"
)

// InterviewController handles interview related endpoints
type InterviewController struct {
	Pipeline *pipeline.Service
}

// NewInterviewController creates a new instance of InterviewController.
func NewInterviewController(p *pipeline.Service) *InterviewController {
	return &InterviewController{Pipeline: p}
}

type scheduleRequest struct {
	InterviewerID  uuid.UUID  `json:"interviewer_id" binding:"required"`
	SchedulingLink string     `json:"scheduling_link"`
	ScheduledAt    *time.Time `json:"scheduled_at"`
	SendInvite     bool       `json:"send_invite"`
}

// ScheduleHandler creates or updates the interview for an application.
// Changing the interviewer starts a fresh record; otherwise the open
// record is updated in place.
func (ic *InterviewController) ScheduleHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	interview, err := ic.Pipeline.ScheduleInterview(c.Request.Context(), id, pipeline.ScheduleRequest{
		InterviewerID:  req.InterviewerID,
		SchedulingLink: req.SchedulingLink,
		ScheduledAt:    req.ScheduledAt,
		SendInvite:     req.SendInvite,
	}, user)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

type completeRequest struct {
	Notes   string `json:"notes" binding:"required"`
	Outcome string `json:"outcome"`
}

// CompleteHandler records interview notes and completion, exactly once.
func (ic *InterviewController) CompleteHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	interview, err := ic.Pipeline.CompleteInterview(c.Request.Context(), id, req.Notes, req.Outcome, user)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}
