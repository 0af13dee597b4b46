package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"admin-service/internal/domain/activity"
	"admin-service/internal/domain/order"
	"admin-service/internal/domain/product"
	"admin-service/internal/domain/user"
	apperrors "admin-service/pkg/errors"
)

// In-memory repositories backing the handler tests. They honor the same
// error contract as the postgres implementations: NotFound and Conflict
// AppErrors, nothing else.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, input user.CreateUserInput) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == input.Email {
			return nil, apperrors.Conflict("user with this email already exists")
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		Status:       input.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u

	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) List(_ context.Context, filter user.ListFilter, limit, offset int) ([]*user.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*user.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		clone := *u
		matched = append(matched, &clone)
	}

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id uuid.UUID, input user.UpdateUserInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}

	if input.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *input.Email {
				return apperrors.Conflict("user with this email already exists")
			}
		}
		u.Email = *input.Email
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.PasswordHash != nil {
		u.PasswordHash = *input.PasswordHash
	}
	if input.Role != nil {
		u.Role = *input.Role
	}
	if input.Status != nil {
		u.Status = *input.Status
	}
	if input.Avatar != nil {
		u.Avatar = *input.Avatar
	}
	u.UpdatedAt = time.Now()

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user not found")
	}
	delete(r.users, id)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*product.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, input product.CreateProductInput) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == input.SKU {
			return nil, apperrors.Conflict("product with this sku already exists")
		}
	}

	now := time.Now()
	p := &product.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Category:    input.Category,
		Status:      input.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.products[p.ID] = p

	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) List(_ context.Context, filter product.ListFilter, limit, offset int) ([]*product.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*product.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id uuid.UUID, input product.UpdateProductInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product not found")
	}

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.Quantity != nil {
		p.Quantity = *input.Quantity
	}
	if input.Category != nil {
		p.Category = *input.Category
	}
	if input.Image != nil {
		p.Image = *input.Image
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	p.UpdatedAt = time.Now()

	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product not found")
	}
	delete(r.products, id)
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*order.Order
	prices map[uuid.UUID]int64
	seq    int
}

func newFakeOrderRepo(prices map[uuid.UUID]int64) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[uuid.UUID]*order.Order{},
		prices: prices,
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, input order.CreateOrderInput) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(input.Items) == 0 {
		return nil, apperrors.BadRequest("order must contain at least one item")
	}

	var total int64
	items := make([]order.Item, 0, len(input.Items))
	for _, item := range input.Items {
		price, ok := r.prices[item.ProductID]
		if !ok {
			return nil, apperrors.BadRequest("order references an unknown product")
		}
		total += price * int64(item.Quantity)
		items = append(items, order.Item{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	r.seq++
	now := time.Now()
	o := &order.Order{
		ID:        uuid.New(),
		OrderNo:   fmt.Sprintf("ORD-%d", r.seq),
		UserID:    input.UserID,
		Items:     items,
		Total:     total,
		Status:    order.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o

	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter order.ListFilter, limit, offset int) ([]*order.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*order.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.UserID != uuid.Nil && o.UserID != filter.UserID {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status order.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return apperrors.NotFound("order not found")
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*activity.Entry
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Insert(_ context.Context, entry *activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	clone.ID = uuid.New()
	clone.CreatedAt = time.Now()
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, filter activity.ListFilter, limit, offset int) ([]*activity.Entry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*activity.Entry
	for _, e := range r.entries {
		if filter.UserID != uuid.Nil && e.UserID != filter.UserID {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}

	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeActivityRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
