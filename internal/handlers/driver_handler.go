package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/safarisalama/transit-backend/internal/services"
)

// DriverHandler handles driver-facing HTTP requests
type DriverHandler struct {
	tripService *services.TripService
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(tripService *services.TripService) *DriverHandler {
	return &DriverHandler{tripService: tripService}
}

// GetDashboard handles GET /api/v1/drivers/:id/dashboard
func (h *DriverHandler) GetDashboard(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid driver ID",
		})
		return
	}

	dashboard, err := h.tripService.GetDriverDashboard(driverID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
