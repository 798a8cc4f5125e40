// Package decision provides HTTP handlers for accept/reject decisions
// and offer withdrawal.
package decision

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/utilities"
)

// DecisionController handles decision related endpoints
type DecisionController struct {
	Pipeline *pipeline.Service
}

// NewDecisionController creates a new instance of DecisionController.
func NewDecisionController(p *pipeline.Service) *DecisionController {
	return &DecisionController{Pipeline: p}
}

type decisionRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notify bool   `json:"notify"`
}

// AcceptHandler records an ACCEPT decision: the application advances
// to AGREEMENT and the offer letter goes out.
func (dc *DecisionController) AcceptHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := dc.Pipeline.Accept(c.Request.Context(), id, user, req.Reason)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// RejectHandler records a REJECT decision with its mandatory reason.
func (dc *DecisionController) RejectHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := dc.Pipeline.Reject(c.Request.Context(), id, user, req.Reason, req.Notify)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// WithdrawOfferHandler reverses an accepted offer with a compensating
// REJECT decision.
func (dc *DecisionController) WithdrawOfferHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := dc.Pipeline.WithdrawOffer(c.Request.Context(), id, user, req.Reason, req.Notify)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
