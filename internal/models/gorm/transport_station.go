package gorm

import (
	"database/sql"

	"sndcds/uranus-tools/internal/constants"
	"sndcds/uranus-tools/internal/geo"
	"sndcds/uranus-tools/internal/gtfs"
)

// TransportStation represents a row of transport_station. geo_pos is written
// through ST_GeomFromText, see geo.Point.
type TransportStation struct {
	Name                   string         `gorm:"column:name;type:text"`
	GeoPos                 geo.Point      `gorm:"column:geo_pos;type:geometry(Point,4326);not null"`
	GTFSStationCode        sql.NullString `gorm:"column:gtfs_station_code;type:text;uniqueIndex"`
	GTFSLocationType       int            `gorm:"column:gtfs_location_type;type:integer"`
	City                   sql.NullString `gorm:"column:city;type:text"`
	Country                sql.NullString `gorm:"column:country;type:text"`
	GTFSParentStation      sql.NullString `gorm:"column:gtfs_parent_station;type:text"`
	GTFSWheelchairBoarding int            `gorm:"column:gtfs_wheelchair_boarding;type:integer"`
	GTFSZoneID             sql.NullString `gorm:"column:gtfs_zone_id;type:text"`
}

// TableName specifies the table name for GORM. Repositories may override it
// with a configured schema-qualified name.
func (TransportStation) TableName() string {
	return constants.DefaultStationTable
}

// NewTransportStation maps a parsed GTFS stop to its table row.
func NewTransportStation(s gtfs.Stop) TransportStation {
	return TransportStation{
		Name:                   s.Name,
		GeoPos:                 s.Position,
		GTFSStationCode:        s.StationCode,
		GTFSLocationType:       s.LocationType,
		City:                   s.City,
		Country:                s.Country,
		GTFSParentStation:      s.ParentStation,
		GTFSWheelchairBoarding: s.WheelchairBoarding,
		GTFSZoneID:             s.ZoneID,
	}
}

// NewTransportStations maps a batch of stops, preserving order.
func NewTransportStations(stops []gtfs.Stop) []TransportStation {
	stations := make([]TransportStation, 0, len(stops))
	for _, s := range stops {
		stations = append(stations, NewTransportStation(s))
	}
	return stations
}
