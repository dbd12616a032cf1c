package constants

const (
	MsgCountriesUsage    = "Usage: countries-csv-to-sql <inputfile.csv>"
	MsgCountriesWritten  = "SQL INSERT statements written to %s"
	MsgCountriesNoRows   = "No country rows found, nothing written"
	MsgNoValidStations   = "No valid rows to insert."
	MsgStationsImported  = "Imported %d transport stations successfully."
	MsgSkippingStopRow   = "Skipping invalid row"
	MsgDuplicateStopCode = "Duplicate stop_id, keeping latest values"
)
