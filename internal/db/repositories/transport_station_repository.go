package repositories

import (
	"context"
	"fmt"

	"sndcds/uranus-tools/internal/constants"
	gormModels "sndcds/uranus-tools/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransportStationRepository handles transport_station writes using GORM
type TransportStationRepository struct {
	db        *gorm.DB
	table     string
	batchSize int
}

// NewTransportStationRepository creates a repository writing to table, which
// may be schema-qualified. batchSize caps the rows per INSERT statement.
func NewTransportStationRepository(db *gorm.DB, table string, batchSize int) *TransportStationRepository {
	if table == "" {
		table = constants.DefaultStationTable
	}
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}
	return &TransportStationRepository{db: db, table: table, batchSize: batchSize}
}

// UpsertBatch performs bulk upsert with conflict resolution on gtfs_station_code.
// All statements run in one transaction; nothing is committed on error.
func (r *TransportStationRepository) UpsertBatch(ctx context.Context, stations []gormModels.TransportStation) (int64, error) {
	if len(stations) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Table(r.table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gtfs_station_code"}},
			DoUpdates: clause.AssignmentColumns(constants.StationUpdateColumns),
		}).
		CreateInBatches(stations, r.batchSize)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert transport stations into %s: %w", r.table, result.Error)
	}

	return result.RowsAffected, nil
}
