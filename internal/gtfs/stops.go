// Package gtfs reads GTFS stops.txt files into transport station rows.
package gtfs

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sndcds/uranus-tools/internal/common"
	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/geo"
	"sndcds/uranus-tools/internal/logging"
)

// stops.txt columns read by the importer.
const (
	ColumnStopID             = "stop_id"
	ColumnStopName           = "stop_name"
	ColumnStopLat            = "stop_lat"
	ColumnStopLon            = "stop_lon"
	ColumnLocationType       = "location_type"
	ColumnParentStation      = "parent_station"
	ColumnWheelchairBoarding = "wheelchair_boarding"
	ColumnZoneID             = "zone_id"
)

var ErrInvalidInteger = errors.New("invalid integer")

// FieldError points at a single bad field.
type FieldError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: column %s: %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Stop is one validated row of stops.txt.
type Stop struct {
	Line               int
	Name               string
	Position           geo.Point
	StationCode        sql.NullString
	LocationType       int
	City               sql.NullString
	Country            sql.NullString
	ParentStation      sql.NullString
	WheelchairBoarding int
	ZoneID             sql.NullString
}

// SkippedRow records a row dropped for bad coordinates.
type SkippedRow struct {
	Line   int
	Reason string
	Row    map[string]string
}

// Batch is the outcome of parsing one file.
type Batch struct {
	Stops   []Stop
	Skipped []SkippedRow
	// RowsRead counts data rows, valid or not.
	RowsRead int
	// Duplicates counts rows that replaced an earlier row with the same stop_id.
	Duplicates int
}

// ParseOptions carries the values applied to every stop of a file.
type ParseOptions struct {
	City    *string
	Country *string
}

// ParseStops reads stops.txt content. Rows whose coordinates do not parse are
// skipped and reported; every other problem aborts the parse.
func ParseStops(r io.Reader, opts ParseOptions) (*Batch, error) {
	h, err := common.NewHeaderReader(r)
	if err != nil {
		return nil, err
	}
	if len(h.Header()) > 0 {
		if missing := h.Missing(ColumnStopLat, ColumnStopLon); len(missing) > 0 {
			logging.Warn("stops file has no coordinate columns, every row will be skipped",
				"missing", missing)
		}
	}

	batch := &Batch{}
	byCode := map[string]int{}
	city := nullable(opts.City)
	country := nullable(opts.Country)

	for {
		rec, err := h.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		batch.RowsRead++

		stop, err := parseStop(rec)
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) && errors.Is(err, geo.ErrInvalidCoordinate) {
				row := rec.Map()
				logging.Warn(constants.MsgSkippingStopRow,
					"line", rec.Line,
					"reason", err.Error(),
					"row", row,
				)
				batch.Skipped = append(batch.Skipped, SkippedRow{Line: rec.Line, Reason: err.Error(), Row: row})
				continue
			}
			return nil, err
		}
		stop.City = city
		stop.Country = country

		if stop.StationCode.Valid {
			if idx, seen := byCode[stop.StationCode.String]; seen {
				logging.Info(constants.MsgDuplicateStopCode,
					"stop_id", stop.StationCode.String,
					"first_line", batch.Stops[idx].Line,
					"line", stop.Line,
				)
				batch.Stops[idx] = stop
				batch.Duplicates++
				continue
			}
			byCode[stop.StationCode.String] = len(batch.Stops)
		}
		batch.Stops = append(batch.Stops, stop)
	}

	return batch, nil
}

func parseStop(rec common.Record) (Stop, error) {
	lat, err := geo.ParseCoordinate(rec.Get(ColumnStopLat))
	if err != nil {
		return Stop{}, &FieldError{Line: rec.Line, Column: ColumnStopLat, Value: rec.Get(ColumnStopLat), Err: err}
	}
	lon, err := geo.ParseCoordinate(rec.Get(ColumnStopLon))
	if err != nil {
		return Stop{}, &FieldError{Line: rec.Line, Column: ColumnStopLon, Value: rec.Get(ColumnStopLon), Err: err}
	}

	locationType, err := intOrZero(rec, ColumnLocationType)
	if err != nil {
		return Stop{}, err
	}
	wheelchair, err := intOrZero(rec, ColumnWheelchairBoarding)
	if err != nil {
		return Stop{}, err
	}

	return Stop{
		Line:               rec.Line,
		Name:               strings.TrimSpace(rec.Get(ColumnStopName)),
		Position:           geo.Point{Lon: lon, Lat: lat},
		StationCode:        nullString(strings.TrimSpace(rec.Get(ColumnStopID))),
		LocationType:       locationType,
		ParentStation:      nullString(rec.Get(ColumnParentStation)),
		WheelchairBoarding: wheelchair,
		ZoneID:             nullString(rec.Get(ColumnZoneID)),
	}, nil
}

// intOrZero reads an optional integer column; absent or empty means 0.
func intOrZero(rec common.Record, column string) (int, error) {
	raw := strings.TrimSpace(rec.Get(column))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldError{Line: rec.Line, Column: column, Value: raw, Err: ErrInvalidInteger}
	}
	return v, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
