package constants

const (
	// RegclassExists reports whether a (schema-qualified) relation exists.
	RegclassExists = `
	SELECT to_regclass($1) IS NOT NULL
	`

	PostGISInstalled = `
	SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'postgis')
	`

	CountriesInsertHeader = "INSERT INTO countries (code, name, iso_639_1) VALUES\n"
)
