package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"admin-service/internal/domain/activity"
)

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *activity.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO activity_logs (id, user_id, action, entity, entity_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.Entity, entry.EntityID, entry.Details,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return errFailedInsert("activity log", err)
	}

	return nil
}

func (r *ActivityRepository) List(ctx context.Context, filter activity.ListFilter, limit, offset int) ([]*activity.Entry, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	argCount := 0

	if filter.UserID != uuid.Nil {
		argCount++
		where += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, filter.UserID)
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM activity_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, errFailedQuery("activity logs", err)
	}

	query := "SELECT id, user_id, action, entity, entity_id, details, created_at FROM activity_logs" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errFailedQuery("activity logs", err)
	}
	defer rows.Close()

	var entries []*activity.Entry
	for rows.Next() {
		e := &activity.Entry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Entity, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, 0, errFailedScan("activity log", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errFailedQuery("activity logs", err)
	}

	return entries, total, nil
}
