package product

import (
	"time"

	"github.com/google/uuid"
)

// Status represents a product catalog state
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	SKU         string
	// Price is stored in cents to avoid float drift in totals.
	Price     int64
	Quantity  int
	Category  string
	Image     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateProductInput struct {
	Name        string
	Description string
	SKU         string
	Price       int64
	Quantity    int
	Category    string
	Status      Status
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *int64
	Quantity    *int
	Category    *string
	Image       *string
	Status      *Status
}

type ListFilter struct {
	Search   string
	Category string
}
