// Package user provides admin CRUD handlers for admin-surface users
// and the manual send-email action.
package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"talentgate-backend/internal/controller"
	"talentgate-backend/internal/database"
	"talentgate-backend/internal/mailer"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/utilities"
)

// UserController handles user management endpoints
type UserController struct {
	DB   *database.DBinstanceStruct
	Mail mailer.Sender
}

// NewUserController creates a new instance of UserController.
func NewUserController(db *database.DBinstanceStruct, mail mailer.Sender) *UserController {
	return &UserController{DB: db, Mail: mail}
}

// ListHandler returns all admin-surface users.
func (uc *UserController) ListHandler(c *gin.Context) {
	var users []model.User
	if err := uc.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to retrieve users",
		})
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	HasAccess bool   `json:"has_access"`
}

// CreateHandler pre-provisions a user so their tier is set before
// their first SSO login.
func (uc *UserController) CreateHandler(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var existing model.User
	err := uc.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "User already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	newUser := model.User{
		Email:     req.Email,
		Name:      req.Name,
		IsAdmin:   req.IsAdmin,
		HasAccess: req.HasAccess,
	}
	if err := uc.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to create user",
		})
		return
	}

	c.JSON(http.StatusCreated, newUser)
}

// UpdateHandler applies the closed set of admin-updatable user fields.
func (uc *UserController) UpdateHandler(c *gin.Context) {
	id, ok := controller.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var upd model.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var target model.User
	if err := uc.DB.First(&target, "id = ?", id).Error; err != nil {
		controller.RespondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.IsAdmin != nil {
		updates["is_admin"] = *upd.IsAdmin
	}
	if upd.HasAccess != nil {
		updates["has_access"] = *upd.HasAccess
	}
	if len(updates) > 0 {
		if err := uc.DB.Model(&target).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Failed to update user",
			})
			return
		}
	}

	c.JSON(http.StatusOK, target)
}

// DeleteHandler removes a user account.
func (uc *UserController) DeleteHandler(c *gin.Context) {
	id, ok := controller.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	actor, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if actor.ID == id {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Cannot delete your own account"})
		return
	}

	result := uc.DB.Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to delete user",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Record not found"})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "User deleted"})
}

type sendEmailRequest struct {
	Template  string            `json:"template" binding:"required"`
	Recipient string            `json:"recipient" binding:"required,email"`
	Vars      map[string]string `json:"vars"`
}

// SendEmailHandler sends a templated email manually. Failures surface
// to the caller since the send is the whole point of the action.
func (uc *UserController) SendEmailHandler(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	result, err := uc.Mail.Send(c.Request.Context(), req.Template, req.Vars, req.Recipient)
	if err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: "Failed to send email",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
