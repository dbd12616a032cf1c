package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/gtfs"
	"sndcds/uranus-tools/internal/logging"
	"sndcds/uranus-tools/internal/metrics"
	gormModels "sndcds/uranus-tools/internal/models/gorm"

	"github.com/google/uuid"
)

// ImportResult summarises one run.
type ImportResult struct {
	RunID      string
	CSV        string
	RowsRead   int
	Skipped    int
	Duplicates int
	// Imported is the number of valid rows sent to the database.
	Imported int
	// RowsAffected is what Postgres reported for the upsert statements.
	RowsAffected int64
	SkippedRows  []gtfs.SkippedRow
	Duration     time.Duration
}

type StationImportService struct {
	open    StoreOpener
	metrics *metrics.ImportMetrics
	out     io.Writer
	now     func() time.Time
}

// NewStationImportService creates the service. m may be nil; out receives the
// user-facing confirmation lines.
func NewStationImportService(open StoreOpener, m *metrics.ImportMetrics, out io.Writer) *StationImportService {
	if out == nil {
		out = io.Discard
	}
	return &StationImportService{
		open:    open,
		metrics: m,
		out:     out,
		now:     time.Now,
	}
}

// Import parses path and upserts every valid stop in one transaction.
func (s *StationImportService) Import(ctx context.Context, path string, opts gtfs.ParseOptions) (*ImportResult, error) {
	start := s.now()
	result := &ImportResult{RunID: uuid.NewString(), CSV: path}
	log := logging.With("run_id", result.RunID, "csv", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	batch, err := gtfs.ParseStops(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	result.RowsRead = batch.RowsRead
	result.Skipped = len(batch.Skipped)
	result.Duplicates = batch.Duplicates
	result.SkippedRows = batch.Skipped
	if s.metrics != nil {
		s.metrics.ObserveParse(batch.RowsRead, len(batch.Skipped), batch.Duplicates)
	}
	log.Infow("parsed stops file",
		"rows", batch.RowsRead,
		"valid", len(batch.Stops),
		"skipped", len(batch.Skipped),
		"duplicates", batch.Duplicates,
	)

	if len(batch.Stops) == 0 {
		log.Warnw(constants.MsgNoValidStations)
		fmt.Fprintln(s.out, constants.MsgNoValidStations)
		result.Duration = s.now().Sub(start)
		return result, nil
	}

	store, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warnw("close failed", "error", cerr)
		}
	}()

	if err := store.Preflight(ctx); err != nil {
		return nil, fmt.Errorf("preflight failed: %w", err)
	}

	affected, err := store.UpsertBatch(ctx, gormModels.NewTransportStations(batch.Stops))
	if err != nil {
		return nil, err
	}

	result.Imported = len(batch.Stops)
	result.RowsAffected = affected
	result.Duration = s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.ObserveSuccess(int64(result.Imported), result.Duration, s.now())
	}

	log.Infow("import committed",
		"imported", result.Imported,
		"rows_affected", affected,
		"duration", result.Duration,
	)
	fmt.Fprintf(s.out, constants.MsgStationsImported+"\n", result.Imported)
	return result, nil
}
