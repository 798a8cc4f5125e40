// Package webhook provides the HTTP handlers for Tally form-submission
// webhooks. Authenticity, source IP and rate limits are enforced by
// middleware before these handlers run; duplicates and withdrawn
// targets are acknowledged with 200 so the vendor stops retrying.
package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/middleware"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/tally"
)

// WebhookController handles Tally webhook deliveries.
type WebhookController struct {
	Pipeline *pipeline.Service
}

// NewWebhookController creates a new instance of WebhookController.
func NewWebhookController(p *pipeline.Service) *WebhookController {
	return &WebhookController{Pipeline: p}
}

// ApplicationHandler handles the application-form webhook: creates a
// Person (deduplicated by email) and an Application.
func (wc *WebhookController) ApplicationHandler(c *gin.Context) {
	body := middleware.RawBody(c)

	env, err := tally.ParseEnvelope(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}
	rec, err := env.ApplicationRecord(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	outcome, err := wc.Pipeline.IngestApplication(c.Request.Context(), rec)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if outcome.Replay {
		status = http.StatusOK
	}
	c.JSON(status, outcome)
}

// GeneralHandler handles the general-competencies webhook: records the
// person's result and fans stage advancement out to their active
// applications.
func (wc *WebhookController) GeneralHandler(c *gin.Context) {
	body := middleware.RawBody(c)

	env, err := tally.ParseEnvelope(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}
	rec, err := env.GeneralResultRecord(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	outcome, err := wc.Pipeline.ApplyGeneralResult(c.Request.Context(), rec)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// SpecializedHandler handles the specialized-competencies webhook:
// stores an application-scoped assessment awaiting manual review.
func (wc *WebhookController) SpecializedHandler(c *gin.Context) {
	body := middleware.RawBody(c)

	env, err := tally.ParseEnvelope(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}
	rec, err := env.SpecializedRecord(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	outcome, err := wc.Pipeline.RecordSpecializedSubmission(c.Request.Context(), rec)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// AgreementHandler handles the signed-agreement webhook: stores the
// payload and advances the application to SIGNED, or acknowledges a
// no-op when the offer has been withdrawn.
func (wc *WebhookController) AgreementHandler(c *gin.Context) {
	body := middleware.RawBody(c)

	env, err := tally.ParseEnvelope(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}
	rec, err := env.AgreementRecord(body)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	outcome, err := wc.Pipeline.IngestAgreement(c.Request.Context(), rec)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// PreflightHandler answers CORS preflight for all webhook endpoints.
func (wc *WebhookController) PreflightHandler(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
