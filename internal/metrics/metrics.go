package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ImportMetrics holds the Prometheus metrics of one import run. Each run gets
// its own registry so a textfile only carries import metrics.
type ImportMetrics struct {
	Registry *prometheus.Registry

	RowsTotal          prometheus.CounterVec
	DuplicatesTotal    prometheus.Counter
	StationsUpserted   prometheus.Counter
	ImportDuration     prometheus.Histogram
	LastSuccessSeconds prometheus.Gauge
}

// Row outcomes used as the "result" label of uranus_gtfs_rows_total.
const (
	RowRead    = "read"
	RowSkipped = "skipped"
)

// NewImportMetrics initializes and returns ImportMetrics on a fresh registry
func NewImportMetrics() *ImportMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &ImportMetrics{
		Registry: reg,

		RowsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uranus_gtfs_rows_total",
				Help: "stops.txt data rows by outcome",
			},
			[]string{"result"},
		),
		DuplicatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uranus_gtfs_duplicate_stops_total",
				Help: "Rows that replaced an earlier row with the same stop_id",
			},
		),
		StationsUpserted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uranus_transport_stations_upserted_total",
				Help: "Transport stations inserted or updated",
			},
		),
		ImportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uranus_transport_station_import_duration_seconds",
				Help:    "Import run time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		LastSuccessSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "uranus_transport_station_import_last_success_timestamp_seconds",
				Help: "Unix time of the last successful import",
			},
		),
	}
}

// ObserveParse records row counters for a parsed file.
func (m *ImportMetrics) ObserveParse(rowsRead, skipped, duplicates int) {
	m.RowsTotal.WithLabelValues(RowRead).Add(float64(rowsRead))
	m.RowsTotal.WithLabelValues(RowSkipped).Add(float64(skipped))
	m.DuplicatesTotal.Add(float64(duplicates))
}

// ObserveSuccess records a finished import.
func (m *ImportMetrics) ObserveSuccess(upserted int64, took time.Duration, now time.Time) {
	m.StationsUpserted.Add(float64(upserted))
	m.ImportDuration.Observe(took.Seconds())
	m.LastSuccessSeconds.Set(float64(now.Unix()))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *ImportMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
