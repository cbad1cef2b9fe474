package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/msotelo-dev/atelier-backend/pkg/db/models"
	"github.com/msotelo-dev/atelier-backend/pkg/enums"
)

// UserDTO is the API-facing shape of a user account. The password hash never
// leaves the persistence layer.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UserListResult carries one page of users plus the next cursor.
type UserListResult struct {
	Users      []UserDTO `json:"users"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// CreateUserInput holds the validated payload to provision an account.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      enums.UserRole
}

// UpdateUserInput holds optional mutation values for an account.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *enums.UserRole
	IsActive  *bool
}

// FromModel converts the persistence model into the API shape.
func FromModel(m *models.User) *UserDTO {
	return &UserDTO{
		ID:          m.ID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Role:        m.Role,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
