// Package handler contains the gin HTTP handlers of the API.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chianti/chianti-go/internal/db"
	"github.com/chianti/chianti-go/internal/models"
	"github.com/chianti/chianti-go/internal/service"
	"github.com/chianti/chianti-go/pkg/logger"
)

// queryString returns the raw value of a query parameter, or nil when the
// parameter is absent. An empty value counts as present.
func queryString(c *gin.Context, name string) *string {
	value, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	return &value
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be an integer", name)
	}
	return &value, nil
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be an integer", name)
	}
	return &value, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("parameter %q must be a boolean", name)
	}
	return &value, nil
}

func respondError(c *gin.Context, status int, errName, message string) {
	c.JSON(status, models.ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     errName,
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "Bad Request", message)
}

// handleError maps service and storage errors onto the uniform error
// envelope.
func handleError(c *gin.Context, err error) {
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		logger.Log.Warn("Validation error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		badRequest(c, err.Error())
	case db.IsNotFound(err):
		respondError(c, http.StatusNotFound, "Not Found", "Resource not found")
	default:
		logger.Log.Error("Request failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		respondError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}
