package repository

import (
	"context"

	"github.com/google/uuid"

	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/order"
	"admin-service/internal/domain/product"
	"admin-service/internal/domain/user"
)

// Repository interfaces consumed by handlers and middleware.
// Concrete implementations live in repository/postgres and are injected at
// wiring time; nothing in the request path reaches for a global client.

type UserRepository interface {
	Create(ctx context.Context, input user.CreateUserInput) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context, filter user.ListFilter, limit, offset int) ([]*user.User, int, error)
	Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, input product.CreateProductInput) (*product.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	List(ctx context.Context, filter product.ListFilter, limit, offset int) ([]*product.Product, int, error)
	Update(ctx context.Context, id uuid.UUID, input product.UpdateProductInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, input order.CreateOrderInput) (*order.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	List(ctx context.Context, filter order.ListFilter, limit, offset int) ([]*order.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error
}

type ActivityRepository interface {
	Insert(ctx context.Context, entry *activity.Entry) error
	List(ctx context.Context, filter activity.ListFilter, limit, offset int) ([]*activity.Entry, int, error)
}
