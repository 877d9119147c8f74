package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gearguard-backend/internal/auth"
	apperrors "gearguard-backend/internal/errors"
	"gearguard-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
	Field string `json:"field,omitempty" example:"close_date"`
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var domainValidation *apperrors.ValidationError

	switch {
	case errors.As(err, &domainValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: domainValidation.Message, Field: domainValidation.Field})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case apperrors.IsAlreadyExists(err), apperrors.IsInvalidTransition(err), apperrors.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.As(err, &validationErrs),
		errors.Is(err, apperrors.ErrInvalidReportDimension),
		errors.Is(err, apperrors.ErrInvalidPaginationParams):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		logger.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// actorFrom returns the authenticated user, if any
func actorFrom(c *gin.Context) *uuid.UUID {
	id, ok := auth.GetUserID(c)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}

// pathID parses the :id path parameter and answers 400 when it is not a UUID
func pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + entity + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads page and page_size, falling back to 1 and 20
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// queryUUID reads an optional UUID query parameter
func queryUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key, "invalid "+key)
	}
	return &id, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key, "invalid "+key+": use YYYY-MM-DD")
	}
	return &t, nil
}

// queryBool reads an optional boolean query parameter
func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(key, "invalid "+key)
	}
	return &v, nil
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}
