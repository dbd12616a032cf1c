package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DriverName is the database/sql driver registered by lib/pq.
const DriverName = "postgres"

// ConnectPostgres opens a sqlx handle and verifies it with a ping. There is no
// retry: a one-shot import fails fast when the server is unreachable.
func ConnectPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// single-threaded import, one connection is all it uses
	db.SetMaxOpenConns(1)
	return db, nil
}
