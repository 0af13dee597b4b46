package user

import (
	"time"

	"github.com/google/uuid"

	"admin-service/internal/rbac"
)

// Status represents a user account state
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// Valid reports whether the status is one of the configured states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         rbac.Role
	Status       Status
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         rbac.Role
	Status       Status
}

type UpdateUserInput struct {
	Email        *string
	Name         *string
	PasswordHash *string
	Role         *rbac.Role
	Status       *Status
	Avatar       *string
}

// ListFilter narrows user listings. Zero values mean no filtering.
type ListFilter struct {
	Search string
	Role   rbac.Role
	Status Status
}
