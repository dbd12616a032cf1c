package constants

type (
	Language string
)

const (
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageDanish  Language = "da"

	SRID4326 = 4326

	DefaultStationTable = "uranus.transport_station"
	DefaultPGHost       = "localhost"
	DefaultPGPort       = 5432
	DefaultPGSSLMode    = "disable"
	DefaultBatchSize    = 1000
)

// StationUpdateColumns are overwritten when a station code already exists.
var StationUpdateColumns = []string{
	"name",
	"geo_pos",
	"gtfs_location_type",
	"city",
	"country",
	"gtfs_parent_station",
	"gtfs_wheelchair_boarding",
	"gtfs_zone_id",
}
