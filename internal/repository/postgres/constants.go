package postgres

import "time"

const (
	poolHealthCheckPeriod = 1 * time.Minute
	poolMaxConnLifetime   = 1 * time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound     = "user not found"
	errProductNotFound  = "product not found"
	errOrderNotFound    = "order not found"
	errEmptyOrder       = "order must contain at least one item"
	errUnknownProductIn = "order references unknown product"
)
