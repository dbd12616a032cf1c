// Package geo encodes coordinates the way PostGIS expects them.
package geo

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sndcds/uranus-tools/internal/constants"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Point is a WGS 84 position. Longitude comes first, as in WKT.
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint returns a point for finite coordinates.
func NewPoint(lon, lat float64) (Point, error) {
	if !isFinite(lon) {
		return Point{}, fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, lon)
	}
	if !isFinite(lat) {
		return Point{}, fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, lat)
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// ParseCoordinate parses a textual coordinate. Surrounding whitespace is
// ignored; NaN and infinities are rejected.
func ParseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return v, nil
}

// WKT renders POINT(lon lat).
func (p Point) WKT() string {
	return "POINT(" + FormatCoordinate(p.Lon) + " " + FormatCoordinate(p.Lat) + ")"
}

// EWKT renders SRID=4326;POINT(lon lat).
func (p Point) EWKT() string {
	return "SRID=" + strconv.Itoa(constants.SRID4326) + ";" + p.WKT()
}

func (p Point) String() string {
	return p.EWKT()
}

// GormValue makes GORM send the point through ST_GeomFromText.
func (p Point) GormValue(_ context.Context, _ *gorm.DB) clause.Expr {
	return clause.Expr{SQL: "ST_GeomFromText(?)", Vars: []interface{}{p.EWKT()}}
}

// GormDataType reports the column type used for geo_pos.
func (Point) GormDataType() string {
	return "geometry"
}

// Value implements driver.Valuer.
func (p Point) Value() (driver.Value, error) {
	return p.EWKT(), nil
}

// Scan accepts the EWKT/WKT text form written by Value. Binary geometry from
// the server is not decoded.
func (p *Point) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*p = Point{}
		return nil
	default:
		return fmt.Errorf("geo: cannot scan %T into Point", src)
	}

	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(strings.ToUpper(s), "POINT(") || !strings.HasSuffix(s, ")") {
		return fmt.Errorf("geo: unsupported geometry text %q", s)
	}
	parts := strings.Fields(s[len("POINT(") : len(s)-1])
	if len(parts) != 2 {
		return fmt.Errorf("geo: unsupported geometry text %q", s)
	}
	lon, err := ParseCoordinate(parts[0])
	if err != nil {
		return err
	}
	lat, err := ParseCoordinate(parts[1])
	if err != nil {
		return err
	}
	point, err := NewPoint(lon, lat)
	if err != nil {
		return err
	}
	*p = point
	return nil
}

// FormatCoordinate prints the shortest round-trip form and keeps at least one
// decimal, so 9 becomes "9.0".
func FormatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
