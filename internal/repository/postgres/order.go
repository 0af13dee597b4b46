package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"admin-service/internal/domain/order"
	apperrors "admin-service/pkg/errors"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = "id, order_no, user_id, total, status, created_at, updated_at"

func scanOrder(row pgx.Row) (*order.Order, error) {
	o := &order.Order{}
	err := row.Scan(
		&o.ID,
		&o.OrderNo,
		&o.UserID,
		&o.Total,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts an order and its items in one transaction. Unit prices are
// snapshotted from the catalog inside the transaction and the total is
// computed server-side; client-supplied prices are never trusted.
func (r *OrderRepository) Create(ctx context.Context, input order.CreateOrderInput) (*order.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.BadRequest(errEmptyOrder)
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	rows, err := tx.Query(ctx, "SELECT id, price FROM products WHERE id = ANY($1)", productIDs)
	if err != nil {
		return nil, errFailedQuery("products", err)
	}

	prices := make(map[uuid.UUID]int64, len(productIDs))
	for rows.Next() {
		var id uuid.UUID
		var price int64
		if err := rows.Scan(&id, &price); err != nil {
			rows.Close()
			return nil, errFailedScan("product", err)
		}
		prices[id] = price
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errFailedQuery("products", err)
	}

	var total int64
	for _, item := range input.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			return nil, apperrors.BadRequest(errUnknownProductIn)
		}
		total += price * int64(item.Quantity)
	}

	orderNo := fmt.Sprintf("ORD-%d", time.Now().UnixMilli())

	orderQuery := `
		INSERT INTO orders (order_no, user_id, total, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + orderColumns

	o, err := scanOrder(tx.QueryRow(ctx, orderQuery, orderNo, input.UserID, total, order.StatusPending))
	if err != nil {
		return nil, errFailedInsert("order", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for _, item := range input.Items {
		oi := order.Item{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     prices[item.ProductID],
		}
		if err := tx.QueryRow(ctx, itemQuery, o.ID, item.ProductID, item.Quantity, oi.Price).Scan(&oi.ID); err != nil {
			return nil, errFailedInsert("order item", err)
		}
		o.Items = append(o.Items, oi)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errOrderNotFound)
		}
		return nil, errFailedQuery("order", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter, limit, offset int) ([]*order.Order, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argCount := 0

	if filter.Status != "" {
		argCount++
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
	}
	if filter.UserID != uuid.Nil {
		argCount++
		where += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filter.UserID)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, errFailedQuery("orders", err)
	}

	query := "SELECT " + orderColumns + " FROM orders" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errFailedQuery("orders", err)
	}
	defer rows.Close()

	var orders []*order.Order
	var orderIDs []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, errFailedScan("order", err)
		}
		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errFailedQuery("orders", err)
	}

	if len(orderIDs) > 0 {
		items, err := r.loadItems(ctx, orderIDs)
		if err != nil {
			return nil, 0, err
		}
		for _, o := range orders {
			o.Items = items[o.ID]
		}
	}

	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	result, err := r.db.Pool.Exec(ctx,
		"UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		return errFailedUpdate("order", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errOrderNotFound)
	}

	return nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]order.Item, error) {
	rows, err := r.db.Pool.Query(ctx,
		"SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = ANY($1)", orderIDs)
	if err != nil {
		return nil, errFailedQuery("order items", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]order.Item, len(orderIDs))
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, errFailedScan("order item", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedQuery("order items", err)
	}

	return items, nil
}
