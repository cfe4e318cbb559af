package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/safarisalama/transit-backend/internal/config"
	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/models"
	"github.com/safarisalama/transit-backend/internal/utils"
	"github.com/safarisalama/transit-backend/pkg/jwt"
	"github.com/safarisalama/transit-backend/pkg/validator"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	userRepository *database.UserRepository
	jwtService     *jwt.Service
	phoneValidator *validator.PhoneValidator
	config         *config.Config
	logger         *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userRepository *database.UserRepository,
	jwtService *jwt.Service,
	phoneValidator *validator.PhoneValidator,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepository,
		jwtService:     jwtService,
		phoneValidator: phoneValidator,
		config:         cfg,
		logger:         logger,
	}
}

// RegisterRequest represents the request to register a user
type RegisterRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required,min=8"`
	UserType string `json:"user_type"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response after a successful login
type LoginResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int          `json:"expires_in_seconds"`
	User        *models.User `json:"user"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	phone, err := h.phoneValidator.Validate(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_phone",
			Message: err.Error(),
		})
		return
	}

	userType := models.UserType(req.UserType)
	if userType == "" {
		userType = models.UserTypePassenger
	}
	if !models.ValidUserType(userType) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user_type",
		})
		return
	}

	existing, err := h.userRepository.GetByPhone(phone)
	if err != nil {
		h.logger.WithError(err).Error("Failed to check phone uniqueness")
		respondServiceError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "conflict",
			Message: "Phone number already registered",
		})
		return
	}

	if req.Email != "" {
		existing, err = h.userRepository.GetByEmail(req.Email)
		if err != nil {
			h.logger.WithError(err).Error("Failed to check email uniqueness")
			respondServiceError(c, err)
			return
		}
		if existing != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "conflict",
				Message: "Email already registered",
			})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.config.Security.BcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create account",
		})
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Phone:        phone,
		Name:         req.Name,
		PasswordHash: string(hash),
		UserType:     userType,
		IsActive:     true,
	}
	if req.Email != "" {
		user.Email = models.String(req.Email)
	}

	if err := h.userRepository.Create(user); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "conflict",
				Message: "Phone number or email already registered",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to create user")
		respondServiceError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"user_type": user.UserType,
	}).Info("User registered")

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	phone, err := h.phoneValidator.Validate(req.Phone)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_phone",
			Message: err.Error(),
		})
		return
	}

	user, err := h.userRepository.GetByPhone(phone)
	if err != nil {
		h.logger.WithError(err).Error("Failed to look up user")
		respondServiceError(c, err)
		return
	}
	// Same response for unknown phone and wrong password
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid phone number or password",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "account_deactivated",
			Message: "Account has been deactivated",
		})
		return
	}

	token, err := h.jwtService.GenerateAccessToken(user.ID, user.Phone, string(user.UserType))
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to log in",
		})
		return
	}

	now := time.Now().UTC()
	if err := h.userRepository.UpdateLastLogin(user.ID, now); err != nil {
		// Login still succeeds; the stamp is advisory
		h.logger.WithError(err).Warn("Failed to stamp last_login")
	}
	user.LastLogin = models.Time(now)

	device := utils.ParseUserAgent(c.Request.UserAgent())
	h.logger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"user_type":   user.UserType,
		"device_type": device.DeviceType,
		"platform":    device.Platform,
		"os":          device.OS,
	}).Info("User logged in")

	c.JSON(http.StatusOK, LoginResponse{
		Message:     "Login successful",
		AccessToken: token,
		ExpiresIn:   int(h.config.JWT.AccessTokenExpiry.Seconds()),
		User:        user,
	})
}
