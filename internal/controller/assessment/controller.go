// Package assessment provides HTTP handlers for manual review of
// specialized assessments.
package assessment

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/utilities"
)

// AssessmentController handles assessment related endpoints
type AssessmentController struct {
	Pipeline *pipeline.Service
}

// NewAssessmentController creates a new instance of AssessmentController.
func NewAssessmentController(p *pipeline.Service) *AssessmentController {
	return &AssessmentController{Pipeline: p}
}

type reviewRequest struct {
	Passed *bool `json:"passed" binding:"required"`
}

// ReviewHandler marks a specialized assessment passed or failed. The
// result gates advancing the application to INTERVIEW.
func (ac *AssessmentController) ReviewHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	assessment, err := ac.Pipeline.ReviewSpecialized(c.Request.Context(), id, *req.Passed, user)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}
