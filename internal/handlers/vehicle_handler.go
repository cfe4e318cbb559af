package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/models"
)

// VehicleHandler handles fleet HTTP requests
type VehicleHandler struct {
	vehicleRepository *database.VehicleRepository
	logger            *logrus.Logger
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleRepository *database.VehicleRepository, logger *logrus.Logger) *VehicleHandler {
	return &VehicleHandler{vehicleRepository: vehicleRepository, logger: logger}
}

// CreateVehicleRequest represents the request to register a vehicle
type CreateVehicleRequest struct {
	RegistrationNumber string     `json:"registration_number" binding:"required"`
	SaccoID            *uuid.UUID `json:"sacco_id"`
	RouteID            *uuid.UUID `json:"route_id"`
	Capacity           int        `json:"capacity" binding:"required,min=1"`
	VehicleType        string     `json:"vehicle_type"`
	Make               string     `json:"make"`
	Model              string     `json:"model"`
	YearOfManufacture  *int       `json:"year_of_manufacture"`
}

// UpdateLocationRequest represents a vehicle position report
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// CreateVehicle handles POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = "matatu"
	}

	vehicle := &models.Vehicle{
		ID:                 uuid.New(),
		RegistrationNumber: req.RegistrationNumber,
		Capacity:           req.Capacity,
		VehicleType:        vehicleType,
	}
	if req.SaccoID != nil {
		vehicle.SaccoID = uuid.NullUUID{UUID: *req.SaccoID, Valid: true}
	}
	if req.RouteID != nil {
		vehicle.RouteID = uuid.NullUUID{UUID: *req.RouteID, Valid: true}
	}
	if req.Make != "" {
		vehicle.Make = models.String(req.Make)
	}
	if req.Model != "" {
		vehicle.Model = models.String(req.Model)
	}
	if req.YearOfManufacture != nil {
		vehicle.YearOfManufacture = models.Int(int64(*req.YearOfManufacture))
	}

	if err := h.vehicleRepository.Create(vehicle); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "conflict",
				Message: "Registration number already exists",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create vehicle")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid vehicle ID",
		})
		return
	}

	vehicle, err := h.vehicleRepository.GetByID(vehicleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if vehicle == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Vehicle not found",
		})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListLocations handles GET /api/v1/vehicles/location?route_id=&is_online=
func (h *VehicleHandler) ListLocations(c *gin.Context) {
	var routeID uuid.NullUUID
	if raw := c.Query("route_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid route_id",
			})
			return
		}
		routeID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	var isOnline *bool
	if raw := c.Query("is_online"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid is_online",
			})
			return
		}
		isOnline = &parsed
	}

	vehicles, err := h.vehicleRepository.ListLocations(routeID, isOnline)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}

// UpdateLocation handles PATCH /api/v1/vehicles/:id/location
func (h *VehicleHandler) UpdateLocation(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid vehicle ID",
		})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	vehicle, err := h.vehicleRepository.UpdateLocation(vehicleID, *req.Latitude, *req.Longitude, time.Now().UTC())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if vehicle == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Vehicle not found",
		})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}
