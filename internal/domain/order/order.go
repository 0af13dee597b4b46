package order

import (
	"time"

	"github.com/google/uuid"
)

// Status represents an order lifecycle state
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

type Order struct {
	ID        uuid.UUID
	OrderNo   string
	UserID    uuid.UUID
	Items     []Item
	// Total is the sum of item price * quantity in cents, computed
	// server-side from catalog prices at creation time.
	Total     int64
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	// Price snapshots the product's unit price in cents when the order
	// was placed; later catalog edits must not change past totals.
	Price int64
}

type CreateOrderInput struct {
	UserID uuid.UUID
	Items  []CreateItemInput
}

type CreateItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type ListFilter struct {
	Status Status
	// UserID restricts listings to a single customer's orders.
	UserID uuid.UUID
}
