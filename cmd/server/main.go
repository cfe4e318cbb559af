package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/safarisalama/transit-backend/internal/config"
	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/handlers"
	"github.com/safarisalama/transit-backend/internal/metrics"
	"github.com/safarisalama/transit-backend/internal/middleware"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/internal/services"
	"github.com/safarisalama/transit-backend/pkg/jwt"
	"github.com/safarisalama/transit-backend/pkg/notify"
	"github.com/safarisalama/transit-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SafariSalama Transit Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	vehicleRepository := database.NewVehicleRepository(db)
	routeRepository := database.NewRouteRepository(db)
	tripRepository := database.NewTripRepository(db)
	alertRepository := database.NewAlertRepository(db)

	// Initialize metrics and the notification dispatcher
	collector := metrics.NewCollector()

	dispatcher := notify.NewDispatcher(notify.NewLogNotifier(logger), logger, cfg.Notify.QueueSize)
	dispatcher.OnResult = func(delivered bool) {
		if delivered {
			collector.NotificationsSent.Inc()
		} else {
			collector.NotificationsErrs.Inc()
		}
	}
	defer dispatcher.Close()

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	phoneValidator := validator.NewPhoneValidator()
	tripService := services.NewTripService(tripRepository, userRepository, collector, logger)
	alertService := services.NewAlertService(alertRepository, dispatcher, collector, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepository, jwtService, phoneValidator, cfg, logger)
	userHandler := handlers.NewUserHandler(userRepository, logger)
	vehicleHandler := handlers.NewVehicleHandler(vehicleRepository, logger)
	routeHandler := handlers.NewRouteHandler(routeRepository, logger)
	tripHandler := handlers.NewTripHandler(tripService)
	emergencyHandler := handlers.NewEmergencyHandler(alertService)
	driverHandler := handlers.NewDriverHandler(tripService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check and metrics endpoints
	router.GET("/health", healthCheckHandler(db))
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	adminTypes := []string{string(models.UserTypeAdmin), string(models.UserTypeSaccoAdmin)}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(middleware.AuthMiddleware(jwtService))
		{
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id/profile", userHandler.UpdateProfile)
		}

		// Vehicle routes
		vehicles := v1.Group("/vehicles")
		{
			// Live locations are public so passenger apps can poll
			// without an account
			vehicles.GET("/location", vehicleHandler.ListLocations)

			protected := vehicles.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("", middleware.RequireUserType(adminTypes...), vehicleHandler.CreateVehicle)
				protected.GET("/:id", vehicleHandler.GetVehicle)
				protected.PATCH("/:id/location", vehicleHandler.UpdateLocation)
			}
		}

		// Route routes (reads public, writes admin-only)
		routes := v1.Group("/routes")
		{
			routes.GET("", routeHandler.ListRoutes)
			routes.GET("/:id", routeHandler.GetRoute)

			protected := routes.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService), middleware.RequireUserType(adminTypes...))
			{
				protected.POST("", routeHandler.CreateRoute)
			}
		}

		// Trip routes (protected)
		trips := v1.Group("/trips")
		trips.Use(middleware.AuthMiddleware(jwtService))
		{
			trips.POST("/start", tripHandler.StartTrip)
			trips.GET("", tripHandler.ListTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.PATCH("/:id/end", tripHandler.EndTrip)
			trips.POST("/:id/sync-locations", tripHandler.SyncLocations)
			trips.GET("/user/:id/active", tripHandler.GetActiveTrip)
			trips.GET("/user/:id/history", tripHandler.GetTripHistory)
		}

		// Emergency routes (protected; status transitions admin-only)
		emergency := v1.Group("/emergency")
		emergency.Use(middleware.AuthMiddleware(jwtService))
		{
			emergency.POST("", emergencyHandler.CreateAlert)
			emergency.GET("", emergencyHandler.ListAlerts)
			emergency.GET("/:id", emergencyHandler.GetAlert)
			emergency.PATCH("/:id/status", middleware.RequireUserType(adminTypes...), emergencyHandler.UpdateAlertStatus)
		}

		// Driver routes (protected)
		drivers := v1.Group("/drivers")
		drivers.Use(middleware.AuthMiddleware(jwtService))
		{
			drivers.GET("/:id/dashboard", driverHandler.GetDashboard)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["user_type"] = userCtx.UserType
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
