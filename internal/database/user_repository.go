package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safarisalama/transit-backend/internal/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, phone, name, email, password_hash, user_type, profile_photo_url,
	is_verified, is_active, last_login, created_at, updated_at
`

// Create inserts a new user record
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (
			id, phone, name, email, password_hash, user_type, profile_photo_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING is_verified, is_active, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		user.ID, user.Phone, user.Name, user.Email, user.PasswordHash,
		user.UserType, user.ProfilePhotoURL,
	).Scan(&user.IsVerified, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Phone, &user.Name, &user.Email, &user.PasswordHash,
		&user.UserType, &user.ProfilePhotoURL, &user.IsVerified, &user.IsActive,
		&user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID, or nil if no such user exists
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(query, userID))
}

// GetByPhone retrieves a user by phone number, or nil if no such user exists
func (r *UserRepository) GetByPhone(phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanUser(r.db.QueryRow(query, phone))
}

// GetByEmail retrieves a user by email, or nil if no such user exists
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRow(query, email))
}

// UpdateProfile persists profile fields (name, email, photo)
func (r *UserRepository) UpdateProfile(user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, profile_photo_url = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, user.ID, user.Name, user.Email, user.ProfilePhotoURL).
		Scan(&user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the user's last login time
func (r *UserRepository) UpdateLastLogin(userID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
