package cli

import (
	"errors"

	"sndcds/uranus-tools/internal/config"
	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/gtfs"
	"sndcds/uranus-tools/internal/logging"
	"sndcds/uranus-tools/internal/metrics"
	"sndcds/uranus-tools/internal/report"
	"sndcds/uranus-tools/internal/services"

	"github.com/spf13/cobra"
)

// OpenerFunc builds the database opener for a loaded configuration.
type OpenerFunc func(cfg *config.Config) services.StoreOpener

func postgresOpener(cfg *config.Config) services.StoreOpener {
	return services.PostgresOpener(cfg.DSN(), cfg.Table, cfg.BatchSize, cfg.Verbose)
}

// NewImportStationsCommand creates the import-transport-stations command.
func NewImportStationsCommand() *cobra.Command {
	return newImportStationsCommand(postgresOpener)
}

func newImportStationsCommand(opener OpenerFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-transport-stations",
		Short: "Import GTFS stops.txt into transport_station",
		Long: `Reads a GTFS stops.txt file and upserts every stop with valid coordinates
into the PostGIS transport_station table, keyed on gtfs_station_code.
Rows with unparsable coordinates are skipped and reported. All rows are
committed in a single transaction.

Connection settings may also come from a YAML file (--config), a .env file
and the PG_HOST, PG_PORT, PG_DB, PG_USER, PG_PASSWORD and PG_SSLMODE
variables. Flags win over all other sources.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.String("csv", "", "Path to GTFS stops.txt (required)")
	f.String("city", "", "City applied to every imported stop")
	f.String("country", "", "Country code applied to every imported stop")
	f.String("host", constants.DefaultPGHost, "Postgres host")
	f.Int("port", constants.DefaultPGPort, "Postgres port")
	f.String("db", "", "Database name (required)")
	f.String("user", "", "Database user (required)")
	f.String("password", "", "Database password (required, may be empty)")
	f.String("sslmode", constants.DefaultPGSSLMode, "Postgres sslmode")
	f.String("table", constants.DefaultStationTable, "Target table, optionally schema-qualified")
	f.Int("batch-size", constants.DefaultBatchSize, "Rows per INSERT statement")
	f.String("config", "", "Optional YAML config file")
	f.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	f.BoolP("verbose", "v", false, "Log SQL and print a run summary")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfgFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			if errors.Is(err, config.ErrMissingRequired) {
				return &UsageError{Usage: cmd.UsageString(), Err: err}
			}
			return err
		}

		if err := initLogging(cfg.AppEnv); err != nil {
			return err
		}
		defer logging.Close()
		logging.Debug("configuration loaded", "dsn", cfg.Redacted(), "table", cfg.Table)

		m := metrics.NewImportMetrics()
		svc := services.NewStationImportService(opener(cfg), m, cmd.OutOrStdout())
		result, err := svc.Import(cmd.Context(), cfg.CSV, gtfs.ParseOptions{
			City:    cfg.City,
			Country: cfg.Country,
		})
		if err != nil {
			return err
		}

		if cfg.MetricsFile != "" {
			if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
				logging.Warn("metrics not written", "error", err)
			}
		}
		if cfg.Verbose {
			report.RenderImport(cmd.ErrOrStderr(), result)
		}
		return nil
	}

	return cmd
}
