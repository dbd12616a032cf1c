package services

import (
	"context"
	"fmt"

	"sndcds/uranus-tools/internal/db"
	"sndcds/uranus-tools/internal/db/repositories"
	gormModels "sndcds/uranus-tools/internal/models/gorm"

	"github.com/jmoiron/sqlx"
)

// StationStore is the database side of an import.
type StationStore interface {
	Preflight(ctx context.Context) error
	UpsertBatch(ctx context.Context, stations []gormModels.TransportStation) (int64, error)
	Close() error
}

// StoreOpener connects lazily, so a run without valid rows never touches the
// database.
type StoreOpener func(ctx context.Context) (StationStore, error)

// PostgresStationStore runs the preflight through sqlx and the upsert through
// GORM, both over a single lib/pq pool.
type PostgresStationStore struct {
	conn     *sqlx.DB
	table    string
	schema   *repositories.SchemaRepository
	stations *repositories.TransportStationRepository
}

// NewPostgresStationStore wraps an open connection. Close closes conn.
func NewPostgresStationStore(conn *sqlx.DB, table string, batchSize int, verbose bool) (*PostgresStationStore, error) {
	orm, err := db.OpenORM(conn.DB, verbose)
	if err != nil {
		return nil, err
	}
	return &PostgresStationStore{
		conn:     conn,
		table:    table,
		schema:   repositories.NewSchemaRepository(conn),
		stations: repositories.NewTransportStationRepository(orm, table, batchSize),
	}, nil
}

// PostgresOpener returns a StoreOpener dialing dsn on first use.
func PostgresOpener(dsn, table string, batchSize int, verbose bool) StoreOpener {
	return func(ctx context.Context) (StationStore, error) {
		conn, err := db.ConnectPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStationStore(conn, table, batchSize, verbose)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return store, nil
	}
}

func (s *PostgresStationStore) Preflight(ctx context.Context) error {
	return s.schema.CheckStationTable(ctx, s.table)
}

func (s *PostgresStationStore) UpsertBatch(ctx context.Context, stations []gormModels.TransportStation) (int64, error) {
	return s.stations.UpsertBatch(ctx, stations)
}

func (s *PostgresStationStore) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
