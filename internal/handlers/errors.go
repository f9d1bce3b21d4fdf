package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every error answer
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// attachError records err on the gin context; the observability middleware logs it
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, errorBody{Error: message})
}

// respondBindError answers a body that failed to decode
func respondBindError(c *gin.Context, err error) {
	attachError(c, err)
	c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request", Details: err.Error()})
}

// statusFor maps application errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
