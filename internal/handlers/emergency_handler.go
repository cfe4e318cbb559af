package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/middleware"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/internal/services"
)

// EmergencyHandler handles emergency alert HTTP requests
type EmergencyHandler struct {
	alertService *services.AlertService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(alertService *services.AlertService) *EmergencyHandler {
	return &EmergencyHandler{alertService: alertService}
}

// CreateAlertRequest represents the request to raise an alert
type CreateAlertRequest struct {
	TripID      *uuid.UUID `json:"trip_id"`
	VehicleID   *uuid.UUID `json:"vehicle_id"`
	AlertType   string     `json:"alert_type"`
	Latitude    *float64   `json:"latitude" binding:"required"`
	Longitude   *float64   `json:"longitude" binding:"required"`
	Description string     `json:"description"`
}

// UpdateAlertStatusRequest represents a status transition request
type UpdateAlertStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateAlert handles POST /api/v1/emergency
func (h *EmergencyHandler) CreateAlert(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	input := &services.CreateAlertInput{
		UserID:    userCtx.UserID,
		AlertType: models.AlertType(req.AlertType),
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if req.TripID != nil {
		input.TripID = uuid.NullUUID{UUID: *req.TripID, Valid: true}
	}
	if req.VehicleID != nil {
		input.VehicleID = uuid.NullUUID{UUID: *req.VehicleID, Valid: true}
	}
	if req.Description != "" {
		input.Description = models.String(req.Description)
	}

	alert, err := h.alertService.CreateAlert(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

// UpdateAlertStatus handles PATCH /api/v1/emergency/:id/status.
// Restricted to admin roles by the router.
func (h *EmergencyHandler) UpdateAlertStatus(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid alert ID",
		})
		return
	}

	var req UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	alert, err := h.alertService.UpdateAlertStatus(alertID, models.AlertStatus(req.Status), userCtx.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

// GetAlert handles GET /api/v1/emergency/:id
func (h *EmergencyHandler) GetAlert(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid alert ID",
		})
		return
	}

	alert, err := h.alertService.GetAlert(alertID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alert)
}

// ListAlerts handles GET /api/v1/emergency?status=
func (h *EmergencyHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertService.ListAlerts(models.AlertStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}
