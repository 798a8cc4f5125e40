// Package application provides HTTP handlers for pipeline application
// operations on the admin surface.
package application

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/utilities"
)

// ApplicationController handles application related endpoints
type ApplicationController struct {
	DB       *database.DBinstanceStruct
	Pipeline *pipeline.Service
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(db *database.DBinstanceStruct, p *pipeline.Service) *ApplicationController {
	return &ApplicationController{DB: db, Pipeline: p}
}

// ListHandler returns applications, filterable by status, stage and
// needs_review, newest first.
func (ac *ApplicationController) ListHandler(c *gin.Context) {
	query := ac.DB.Model(&model.Application{}).Preload("Person").Order("id DESC")

	if status := c.Query("status"); status != "" {
		if !model.Status(status).Valid() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if stage := c.Query("stage"); stage != "" {
		if !model.Stage(stage).Valid() {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid stage filter"})
			return
		}
		query = query.Where("current_stage = ?", stage)
	}
	if c.Query("needs_review") == "true" {
		query = query.Where("needs_review = ?", true)
	}

	var apps []model.Application
	if err := query.Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to retrieve applications",
		})
		return
	}

	c.JSON(http.StatusOK, apps)
}

// GetHandler returns one application with its assessments, interviews
// and decisions.
func (ac *ApplicationController) GetHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var app model.Application
	err := ac.DB.
		Preload("Person").
		Preload("Assessments").
		Preload("Interviews").
		Preload("Decisions").
		First(&app, id).Error
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateHandler applies the closed set of admin-updatable fields.
func (ac *ApplicationController) UpdateHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var upd model.ApplicationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.Pipeline.UpdateApplication(c.Request.Context(), id, upd, user)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// DeleteHandler soft-deletes by default; ?hard=true cascades to all
// child records and is irreversible.
func (ac *ApplicationController) DeleteHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if c.Query("hard") == "true" {
		if err := ac.Pipeline.HardDelete(c.Request.Context(), id, user); err != nil {
			controller.RespondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application deleted"})
		return
	}

	if err := ac.Pipeline.SoftDelete(c.Request.Context(), id, user); err != nil {
		controller.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application withdrawn"})
}

// AdvanceToInterviewHandler moves an application with a passed
// specialized review into the INTERVIEW stage.
func (ac *ApplicationController) AdvanceToInterviewHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	app, err := ac.Pipeline.AdvanceToInterview(c.Request.Context(), id, user)
	if err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetPersonHandler returns a person with their applications.
func (ac *ApplicationController) GetPersonHandler(c *gin.Context) {
	id, ok := controller.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var person model.Person
	if err := ac.DB.Preload("Applications").First(&person, "id = ?", id).Error; err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}
