package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safarisalama/transit-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondServiceError maps service-layer errors onto HTTP responses.
// Unknown errors become an opaque 500 so internals never leak to
// clients.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case services.IsConflict(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case services.IsInvalidState(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_state",
			Message: err.Error(),
		})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong. Please try again later.",
		})
	}
}
