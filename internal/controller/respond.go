// Package controller holds helpers shared by the per-area HTTP
// controllers.
package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgate-backend/internal/pipeline"
	"talentgate-backend/internal/tally"
	"talentgate-backend/internal/utilities"
)

// RespondServiceError translates pipeline and parsing errors into
// conventional status codes. Internal failures are logged with detail
// and surfaced generically.
func RespondServiceError(c *gin.Context, err error) {
	var stateErr *pipeline.StateError
	var valErr *pipeline.ValidationError
	var conflictErr *pipeline.ConflictError
	var fieldErr *tally.FieldError

	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: valErr.Error()})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fieldErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: stateErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: conflictErr.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Record not found"})
	default:
		log.Printf("internal error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Internal server error"})
	}
}

// ParseIDParam validates a numeric path identifier before any query.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

// ParseUUIDParam validates a uuid path identifier before any query.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid " + name + " parameter",
		})
		return uuid.Nil, false
	}
	return id, true
}
