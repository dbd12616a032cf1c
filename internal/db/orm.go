package db

import (
	"database/sql"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenORM wraps an open connection pool in GORM, so sqlx and GORM share the
// same session.
func OpenORM(conn *sql.DB, verbose bool) (*gorm.DB, error) {
	level := logger.Silent
	if verbose {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return db, nil
}
