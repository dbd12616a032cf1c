package gorm

import (
	"database/sql"
	"testing"

	"sndcds/uranus-tools/internal/geo"
	"sndcds/uranus-tools/internal/gtfs"

	"github.com/stretchr/testify/assert"
)

func TestNewTransportStations(t *testing.T) {
	stops := []gtfs.Stop{
		{
			Name:               "Central",
			Position:           geo.Point{Lon: 9, Lat: 55},
			StationCode:        sql.NullString{String: "S1", Valid: true},
			City:               sql.NullString{String: "Flensburg", Valid: true},
			Country:            sql.NullString{String: "DEU", Valid: true},
			WheelchairBoarding: 1,
		},
		{Name: "Second", Position: geo.Point{Lon: 1, Lat: 2}, LocationType: 1},
	}

	got := NewTransportStations(stops)

	assert.Equal(t, []TransportStation{
		{
			Name:                   "Central",
			GeoPos:                 geo.Point{Lon: 9, Lat: 55},
			GTFSStationCode:        sql.NullString{String: "S1", Valid: true},
			City:                   sql.NullString{String: "Flensburg", Valid: true},
			Country:                sql.NullString{String: "DEU", Valid: true},
			GTFSWheelchairBoarding: 1,
		},
		{Name: "Second", GeoPos: geo.Point{Lon: 1, Lat: 2}, GTFSLocationType: 1},
	}, got)
	assert.Equal(t, "uranus.transport_station", TransportStation{}.TableName())
}
