package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/safarisalama/transit-backend/internal/database"
	"github.com/safarisalama/transit-backend/internal/middleware"
	"github.com/safarisalama/transit-backend/internal/models"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userRepository *database.UserRepository
	logger         *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepository *database.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userRepository: userRepository, logger: logger}
}

// UpdateProfileRequest represents the request to update a profile
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user ID",
		})
		return
	}

	user, err := h.userRepository.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/v1/users/:id/profile. Users may
// only update their own profile; admins may update anyone's.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
		})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid user ID",
		})
		return
	}

	if userCtx.UserID != userID && userCtx.UserType != string(models.UserTypeAdmin) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "Cannot update another user's profile",
		})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	user, err := h.userRepository.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "User not found",
		})
		return
	}

	if req.Email != "" && (!user.Email.Valid || user.Email.String != req.Email) {
		existing, err := h.userRepository.GetByEmail(req.Email)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if existing != nil && existing.ID != userID {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "conflict",
				Message: "Email already registered",
			})
			return
		}
		user.Email = models.String(req.Email)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.ProfilePhotoURL != "" {
		user.ProfilePhotoURL = models.String(req.ProfilePhotoURL)
	}

	if err := h.userRepository.UpdateProfile(user); err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "conflict",
				Message: "Email already registered",
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update profile")
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
