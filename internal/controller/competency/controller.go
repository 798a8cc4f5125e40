// Package competency provides admin CRUD handlers for competency
// definitions.
package competency

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/utilities"
)

// CompetencyController handles competency definition endpoints
type CompetencyController struct {
	DB *database.DBinstanceStruct
}

// NewCompetencyController creates a new instance of CompetencyController.
func NewCompetencyController(db *database.DBinstanceStruct) *CompetencyController {
	return &CompetencyController{DB: db}
}

// ListHandler returns all competency definitions.
func (cc *CompetencyController) ListHandler(c *gin.Context) {
	var defs []model.CompetencyDefinition
	if err := cc.DB.Order("id ASC").Find(&defs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to retrieve competency definitions",
		})
		return
	}
	c.JSON(http.StatusOK, defs)
}

type createRequest struct {
	Name          string   `json:"name" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=GENERAL SPECIALIZED"`
	PassThreshold float64  `json:"pass_threshold"`
	Positions     []string `json:"positions"`
}

// CreateHandler creates a competency definition.
func (cc *CompetencyController) CreateHandler(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	def := model.CompetencyDefinition{
		Name:          req.Name,
		Type:          req.Type,
		PassThreshold: req.PassThreshold,
		Positions:     pq.StringArray(req.Positions),
	}
	if err := cc.DB.Create(&def).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to create competency definition",
		})
		return
	}

	c.JSON(http.StatusCreated, def)
}

// UpdateHandler applies the closed set of updatable competency fields.
func (cc *CompetencyController) UpdateHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var upd model.CompetencyUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var def model.CompetencyDefinition
	if err := cc.DB.First(&def, id).Error; err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.PassThreshold != nil {
		updates["pass_threshold"] = *upd.PassThreshold
	}
	if upd.Positions != nil {
		updates["positions"] = *upd.Positions
	}
	if len(updates) > 0 {
		if err := cc.DB.Model(&def).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to update competency definition",
			})
			return
		}
	}

	c.JSON(http.StatusOK, def)
}

// DeleteHandler removes a competency definition.
func (cc *CompetencyController) DeleteHandler(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	result := cc.DB.Delete(&model.CompetencyDefinition{}, id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to delete competency definition",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Record not found"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Competency definition deleted"})
}
