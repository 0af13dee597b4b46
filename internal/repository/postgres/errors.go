package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// escapeLikePattern escapes PostgreSQL LIKE wildcard characters (% and _)
// so they are treated as literal characters in LIKE patterns.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf("failed to parse database config: %w", err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf("failed to create connection pool: %w", err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf("failed to ping database: %w", err)
}

func errFailedQuery(entity string, err error) error {
	return fmt.Errorf("failed to query %s: %w", entity, err)
}

func errFailedScan(entity string, err error) error {
	return fmt.Errorf("failed to scan %s: %w", entity, err)
}

func errFailedInsert(entity string, err error) error {
	return fmt.Errorf("failed to insert %s: %w", entity, err)
}

func errFailedUpdate(entity string, err error) error {
	return fmt.Errorf("failed to update %s: %w", entity, err)
}

func errFailedDelete(entity string, err error) error {
	return fmt.Errorf("failed to delete %s: %w", entity, err)
}
