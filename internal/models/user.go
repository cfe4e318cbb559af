package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType enumerates the roles a user can have
type UserType string

const (
	UserTypePassenger  UserType = "passenger"
	UserTypeDriver     UserType = "driver"
	UserTypeAdmin      UserType = "admin"
	UserTypeSaccoAdmin UserType = "sacco_admin"
)

// ValidUserType reports whether t is one of the known roles
func ValidUserType(t UserType) bool {
	switch t {
	case UserTypePassenger, UserTypeDriver, UserTypeAdmin, UserTypeSaccoAdmin:
		return true
	}
	return false
}

// User represents a registered user. Users are never hard-deleted;
// deactivation flips IsActive instead.
type User struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Phone           string     `json:"phone" db:"phone"`
	Name            string     `json:"name" db:"name"`
	Email           NullString `json:"email,omitempty" db:"email"`
	PasswordHash    string     `json:"-" db:"password_hash"` // Never expose in JSON
	UserType        UserType   `json:"user_type" db:"user_type"`
	ProfilePhotoURL NullString `json:"profile_photo_url,omitempty" db:"profile_photo_url"`
	IsVerified      bool       `json:"is_verified" db:"is_verified"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	LastLogin       NullTime   `json:"last_login,omitempty" db:"last_login"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
