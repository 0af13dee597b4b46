package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"admin-service/internal/domain/product"
	apperrors "admin-service/pkg/errors"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, name, description, sku, price, quantity, category, image, status, created_at, updated_at"

func scanProduct(row pgx.Row) (*product.Product, error) {
	p := &product.Product{}
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SKU,
		&p.Price,
		&p.Quantity,
		&p.Category,
		&p.Image,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, input product.CreateProductInput) (*product.Product, error) {
	query := `
		INSERT INTO products (name, description, sku, price, quantity, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.Pool.QueryRow(ctx, query,
		input.Name, input.Description, input.SKU, input.Price, input.Quantity, input.Category, input.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("product with this SKU already exists")
		}
		return nil, errFailedInsert("product", err)
	}

	return p, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errProductNotFound)
		}
		return nil, errFailedQuery("product", err)
	}

	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter product.ListFilter, limit, offset int) ([]*product.Product, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argCount := 0

	if filter.Search != "" {
		argCount++
		pattern := "%" + escapeLikePattern(filter.Search) + "%"
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, pattern)
	}
	if filter.Category != "" {
		argCount++
		where += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filter.Category)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, errFailedQuery("products", err)
	}

	query := "SELECT " + productColumns + " FROM products" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errFailedQuery("products", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errFailedScan("product", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errFailedQuery("products", err)
	}

	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, input product.UpdateProductInput) error {
	query := "UPDATE products SET updated_at = NOW()"
	args := []any{id}
	argCount := 1

	if input.Name != nil {
		argCount++
		query += fmt.Sprintf(", name = $%d", argCount)
		args = append(args, *input.Name)
	}
	if input.Description != nil {
		argCount++
		query += fmt.Sprintf(", description = $%d", argCount)
		args = append(args, *input.Description)
	}
	if input.Price != nil {
		argCount++
		query += fmt.Sprintf(", price = $%d", argCount)
		args = append(args, *input.Price)
	}
	if input.Quantity != nil {
		argCount++
		query += fmt.Sprintf(", quantity = $%d", argCount)
		args = append(args, *input.Quantity)
	}
	if input.Category != nil {
		argCount++
		query += fmt.Sprintf(", category = $%d", argCount)
		args = append(args, *input.Category)
	}
	if input.Image != nil {
		argCount++
		query += fmt.Sprintf(", image = $%d", argCount)
		args = append(args, *input.Image)
	}
	if input.Status != nil {
		argCount++
		query += fmt.Sprintf(", status = $%d", argCount)
		args = append(args, *input.Status)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return errFailedUpdate("product", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProductNotFound)
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return errFailedDelete("product", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProductNotFound)
	}

	return nil
}
