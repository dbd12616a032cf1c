package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sndcds/uranus-tools/internal/constants"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrPostGISMissing = errors.New("postgis extension not installed")
)

// SchemaRepository checks that the target database can take an import.
type SchemaRepository struct {
	db *sqlx.DB
}

func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db}
}

// CheckStationTable fails when PostGIS is missing or table does not exist.
func (r *SchemaRepository) CheckStationTable(ctx context.Context, table string) error {
	var hasPostGIS bool
	if err := r.db.GetContext(ctx, &hasPostGIS, constants.PostGISInstalled); err != nil {
		return fmt.Errorf("check postgis extension: %w", err)
	}
	if !hasPostGIS {
		return ErrPostGISMissing
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, constants.RegclassExists, QualifiedName(table)); err != nil {
		return fmt.Errorf("check table %s: %w", table, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return nil
}

// QualifiedName quotes each dot-separated part of a table name.
func QualifiedName(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
