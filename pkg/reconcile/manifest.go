package reconcile

import (
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ManifestRow is one logical station from the curated station manifest,
// built offline from an open-data operator-mapping CSV keyed by UIC
// codes. Per-operator columns carry that operator's raw identifiers,
// semicolon-separated when a station spans several platforms.
type ManifestRow struct {
	UIC          string  `csv:"uic"`
	Name         string  `csv:"name"`
	City         string  `csv:"city"`
	Country      string  `csv:"country"`
	Latitude     float64 `csv:"latitude"`
	Longitude    float64 `csv:"longitude"`
	SNCFIDs      string  `csv:"sncf_id"`
	TrenitaliaID string  `csv:"trenitalia_id"`
	EurostarID   string  `csv:"eurostar_id"`
	SNCBID       string  `csv:"sncb_id"`
	DBID         string  `csv:"db_id"`
	RenfeID      string  `csv:"renfe_id"`
	OuigoESID    string  `csv:"ouigo_es_id"`
}

// ManifestStation is a manifest row with its member identifiers lifted
// into the prefixed stop-identifier universe.
type ManifestStation struct {
	UIC       string
	Name      string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
	StopIDs   []string
}

func splitIDs(operator string, value string) []string {
	var ids []string
	for _, id := range strings.Split(value, ";") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ids = append(ids, operator+":"+id)
	}

	return ids
}

func (row *ManifestRow) Station() ManifestStation {
	station := ManifestStation{
		UIC:       strings.TrimSpace(row.UIC),
		Name:      row.Name,
		City:      row.City,
		Country:   strings.ToUpper(strings.TrimSpace(row.Country)),
		Latitude:  row.Latitude,
		Longitude: row.Longitude,
	}

	station.StopIDs = append(station.StopIDs, splitIDs("SNCF", row.SNCFIDs)...)
	station.StopIDs = append(station.StopIDs, splitIDs("TI", row.TrenitaliaID)...)
	station.StopIDs = append(station.StopIDs, splitIDs("ES", row.EurostarID)...)
	station.StopIDs = append(station.StopIDs, splitIDs("SNCB", row.SNCBID)...)
	station.StopIDs = append(station.StopIDs, splitIDs("DB", row.DBID)...)
	station.StopIDs = append(station.StopIDs, splitIDs("RENFE", row.RenfeID)...)
	station.StopIDs = append(station.StopIDs, splitIDs("OUIGO_ES", row.OuigoESID)...)

	return station
}

// LoadManifest reads the curated station manifest. A missing manifest
// is a warning, not a fatal error; reconciliation degrades to geography
// and feed-provided links.
func LoadManifest(path string) []ManifestStation {
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Missing station manifest, continuing without")
		return nil
	}
	defer file.Close()

	var rows []ManifestRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse station manifest")
		return nil
	}

	var stations []ManifestStation
	for _, row := range rows {
		station := row.Station()
		if len(station.StopIDs) == 0 {
			continue
		}
		stations = append(stations, station)
	}

	log.Info().Int("stations", len(stations)).Msg("Loaded station manifest")

	return stations
}
