package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sndcds/uranus-tools/internal/db/repositories"
	"sndcds/uranus-tools/internal/geo"
	"sndcds/uranus-tools/internal/gtfs"
	"sndcds/uranus-tools/internal/logging"
	"sndcds/uranus-tools/internal/metrics"
	gormModels "sndcds/uranus-tools/internal/models/gorm"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock StationStore
type mockStationStore struct {
	preflightFunc func(ctx context.Context) error
	upsertFunc    func(ctx context.Context, stations []gormModels.TransportStation) (int64, error)
	closed        bool
	upserted      []gormModels.TransportStation
}

func (m *mockStationStore) Preflight(ctx context.Context) error {
	if m.preflightFunc != nil {
		return m.preflightFunc(ctx)
	}
	return nil
}

func (m *mockStationStore) UpsertBatch(ctx context.Context, stations []gormModels.TransportStation) (int64, error) {
	m.upserted = stations
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, stations)
	}
	return int64(len(stations)), nil
}

func (m *mockStationStore) Close() error {
	m.closed = true
	return nil
}

func writeStops(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stops.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func strPtr(s string) *string { return &s }

const stopsHeader = "stop_id,stop_name,stop_lat,stop_lon,location_type,parent_station,wheelchair_boarding,zone_id\n"

func init() {
	logging.SetLogger(zap.NewNop())
}

func TestStationImportService_Import_Success(t *testing.T) {
	path := writeStops(t, stopsHeader+
		"S1,Central,55.0,9.0,,,,\n"+
		"S2,Broken,abc,9.1,,,,\n"+
		"S3,Harbour,54.78,9.43,0,S1,1,Z1\n")

	store := &mockStationStore{}
	opened := 0
	opener := func(ctx context.Context) (StationStore, error) {
		opened++
		return store, nil
	}
	m := metrics.NewImportMetrics()
	var out bytes.Buffer

	svc := NewStationImportService(opener, m, &out)
	result, err := svc.Import(context.Background(), path, gtfs.ParseOptions{
		City:    strPtr("Flensburg"),
		Country: strPtr("DEU"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, opened)
	assert.True(t, store.closed)
	assert.Equal(t, 3, result.RowsRead)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, int64(2), result.RowsAffected)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Imported 2 transport stations successfully.\n", out.String())

	require.Len(t, store.upserted, 2)
	assert.Equal(t, "Central", store.upserted[0].Name)
	assert.Equal(t, geo.Point{Lon: 9, Lat: 55}, store.upserted[0].GeoPos)
	assert.Equal(t, "Flensburg", store.upserted[1].City.String)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues(metrics.RowRead)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsTotal.WithLabelValues(metrics.RowSkipped)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StationsUpserted))
}

func TestStationImportService_Import_NoValidRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "header only", content: stopsHeader},
		{name: "all rows invalid", content: stopsHeader + "S1,Central,,9.0,,,,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStops(t, tt.content)
			opener := func(ctx context.Context) (StationStore, error) {
				t.Fatal("database must not be opened without valid rows")
				return nil, nil
			}
			var out bytes.Buffer

			result, err := NewStationImportService(opener, nil, &out).
				Import(context.Background(), path, gtfs.ParseOptions{})
			require.NoError(t, err)
			assert.Zero(t, result.Imported)
			assert.Equal(t, "No valid rows to insert.\n", out.String())
		})
	}
}

func TestStationImportService_Import_Failures(t *testing.T) {
	preflightErr := repositories.ErrTableNotFound
	upsertErr := errors.New("connection reset")

	tests := []struct {
		name    string
		store   *mockStationStore
		openErr error
		wantErr error
	}{
		{
			name:    "connect fails",
			openErr: errors.New("password authentication failed"),
		},
		{
			name:    "preflight fails",
			store:   &mockStationStore{preflightFunc: func(context.Context) error { return preflightErr }},
			wantErr: preflightErr,
		},
		{
			name: "upsert fails",
			store: &mockStationStore{upsertFunc: func(context.Context, []gormModels.TransportStation) (int64, error) {
				return 0, upsertErr
			}},
			wantErr: upsertErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStops(t, stopsHeader+"S1,Central,55.0,9.0,,,,\n")
			opener := func(ctx context.Context) (StationStore, error) {
				if tt.openErr != nil {
					return nil, tt.openErr
				}
				return tt.store, nil
			}
			var out bytes.Buffer

			_, err := NewStationImportService(opener, nil, &out).
				Import(context.Background(), path, gtfs.ParseOptions{})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.store != nil {
				assert.True(t, tt.store.closed)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestStationImportService_Import_MissingFile(t *testing.T) {
	svc := NewStationImportService(nil, nil, nil)
	_, err := svc.Import(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), gtfs.ParseOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStationImportService_Import_InvalidInteger(t *testing.T) {
	path := writeStops(t, stopsHeader+"S1,Central,55.0,9.0,station,,,\n")
	svc := NewStationImportService(nil, nil, nil)
	_, err := svc.Import(context.Background(), path, gtfs.ParseOptions{})
	assert.ErrorIs(t, err, gtfs.ErrInvalidInteger)
}

func TestPostgresStationStore_Import(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectQuery("FROM pg_extension").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("to_regclass").
		WithArgs(`"uranus"."transport_station"`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "uranus"\."transport_station" .* ON CONFLICT \("gtfs_station_code"\) DO UPDATE`).
		WithArgs("Central", "SRID=4326;POINT(9.0 55.0)", "S1", int64(0), "Flensburg", "DEU", nil, int64(0), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	opener := func(ctx context.Context) (StationStore, error) {
		return NewPostgresStationStore(sqlx.NewDb(conn, "postgres"), "uranus.transport_station", 1000, false)
	}
	path := writeStops(t, "stop_name,stop_id,stop_lat,stop_lon,location_type,wheelchair_boarding\n"+
		"Central,S1,55.0,9.0,,\n")
	var out bytes.Buffer

	result, err := NewStationImportService(opener, nil, &out).Import(context.Background(), path, gtfs.ParseOptions{
		City:    strPtr("Flensburg"),
		Country: strPtr("DEU"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, "Imported 1 transport stations successfully.\n", out.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
