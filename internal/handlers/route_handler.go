package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/models"
)

// RouteHandler handles route HTTP requests
type RouteHandler struct {
	routeRepository *database.RouteRepository
	logger          *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepository *database.RouteRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routeRepository: routeRepository, logger: logger}
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	Name                     string   `json:"name" binding:"required"`
	RouteNumber              string   `json:"route_number"`
	Origin                   string   `json:"origin" binding:"required"`
	Destination              string   `json:"destination" binding:"required"`
	Description              string   `json:"description"`
	EstimatedDurationMinutes *int     `json:"estimated_duration_minutes"`
	DistanceKm               *float64 `json:"distance_km"`
	FareAmount               *float64 `json:"fare_amount"`
	Stops                    []string `json:"stops"`
}

// CreateRoute handles POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	route := &models.Route{
		ID:          uuid.New(),
		Name:        req.Name,
		Origin:      req.Origin,
		Destination: req.Destination,
	}
	if req.RouteNumber != "" {
		route.RouteNumber = models.String(req.RouteNumber)
	}
	if req.Description != "" {
		route.Description = models.String(req.Description)
	}
	if req.EstimatedDurationMinutes != nil {
		route.EstimatedDurationMinutes = models.Int(int64(*req.EstimatedDurationMinutes))
	}
	if req.DistanceKm != nil {
		route.DistanceKm = models.Float(*req.DistanceKm)
	}
	if req.FareAmount != nil {
		route.FareAmount = models.Float(*req.FareAmount)
	}

	if err := h.routeRepository.Create(route, req.Stops); err != nil {
		h.logger.WithError(err).Error("Failed to create route")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// GetRoute handles GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid route ID",
		})
		return
	}

	route, err := h.routeRepository.GetByID(routeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if route == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
		})
		return
	}

	c.JSON(http.StatusOK, route)
}

// ListRoutes handles GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepository.List(true)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}
