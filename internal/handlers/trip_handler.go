package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/middleware"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/internal/services"
	"github.com/safarisalama/transit-backend/pkg/geo"
)

// TripHandler handles trip lifecycle HTTP requests
type TripHandler struct {
	tripService *services.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripService *services.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// StartTripRequest represents the request to start a trip. Coordinates
// bind through pointers so a legitimate 0.0 (the equator crosses Kenya)
// is not mistaken for a missing field.
type StartTripRequest struct {
	VehicleID      *uuid.UUID `json:"vehicle_id"`
	RouteID        *uuid.UUID `json:"route_id"`
	StartLatitude  *float64   `json:"start_latitude" binding:"required"`
	StartLongitude *float64   `json:"start_longitude" binding:"required"`
	FareAmount     *float64   `json:"fare_amount"`
}

// EndTripRequest represents the request to end a trip
type EndTripRequest struct {
	EndLatitude  *float64 `json:"end_latitude" binding:"required"`
	EndLongitude *float64 `json:"end_longitude" binding:"required"`
}

// LocationPoint is a single GPS fix captured while offline
type LocationPoint struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// SyncLocationsRequest carries a batch of buffered GPS fixes
type SyncLocationsRequest struct {
	Locations []LocationPoint `json:"locations" binding:"required"`
}

// StartTrip handles POST /api/v1/trips/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req StartTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	input := &services.StartTripInput{
		UserID:         userCtx.UserID,
		StartLatitude:  *req.StartLatitude,
		StartLongitude: *req.StartLongitude,
	}
	if req.VehicleID != nil {
		input.VehicleID = uuid.NullUUID{UUID: *req.VehicleID, Valid: true}
	}
	if req.RouteID != nil {
		input.RouteID = uuid.NullUUID{UUID: *req.RouteID, Valid: true}
	}
	if req.FareAmount != nil {
		input.FareAmount = models.Float(*req.FareAmount)
	}

	trip, err := h.tripService.StartTrip(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// EndTrip handles PATCH /api/v1/trips/:id/end
func (h *TripHandler) EndTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid trip ID",
		})
		return
	}

	var req EndTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	trip, err := h.tripService.EndTrip(tripID, *req.EndLatitude, *req.EndLongitude)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// SyncLocations handles POST /api/v1/trips/:id/sync-locations
func (h *TripHandler) SyncLocations(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid trip ID",
		})
		return
	}

	var req SyncLocationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	points := make([]geo.Point, 0, len(req.Locations))
	for _, loc := range req.Locations {
		points = append(points, geo.Point{Latitude: *loc.Latitude, Longitude: *loc.Longitude})
	}

	trip, err := h.tripService.SyncOfflineLocations(tripID, points)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Locations synced",
		"points_synced": len(points),
		"trip_id":       trip.ID,
		"distance_km":   trip.DistanceKm,
		"trip_status":   trip.TripStatus,
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid trip ID",
		})
		return
	}

	trip, err := h.tripService.GetTrip(tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListTrips handles GET /api/v1/trips?user_id=&status=
func (h *TripHandler) ListTrips(c *gin.Context) {
	var userID uuid.NullUUID
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid user_id",
			})
			return
		}
		userID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	trips, err := h.tripService.ListTrips(userID, models.TripStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GetActiveTrip handles GET /api/v1/trips/user/:id/active
func (h *TripHandler) GetActiveTrip(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user ID",
		})
		return
	}

	trip, err := h.tripService.GetActiveTrip(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// GetTripHistory handles GET /api/v1/trips/user/:id/history?skip=&limit=
func (h *TripHandler) GetTripHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user ID",
		})
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	trips, err := h.tripService.ListTripHistory(userID, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}
