package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/rs/zerolog/log"
)

// One directory of JSON documents, each artifact a single file.

const (
	stopsFile         = "stops.json"
	routesInfoFile    = "routes_info.json"
	routesByStopFile  = "routes_by_stop.json"
	routeStopsFile    = "route_stops.json"
	routeTripsFile    = "route_trips.json"
	calendarIndexFile = "calendar_index.json"
	transferIndexFile = "transfer_index.json"
	metaFile          = "meta.json"
)

func writeDocument(directory string, name string, document interface{}) error {
	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	log.Info().Str("file", path).Int("bytes", len(body)).Msg("Wrote artifact")

	return nil
}

func readDocument(directory string, name string, destination interface{}) error {
	path := filepath.Join(directory, name)

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing artifact %s: %w", path, err)
	}

	if err := json.Unmarshal(body, destination); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}

// Save persists every timetable artifact into directory, creating it
// when needed.
func Save(timetable *rtm.Timetable, directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}

	documents := map[string]interface{}{
		stopsFile:         timetable.Stops,
		routesInfoFile:    timetable.RoutesInfo,
		routesByStopFile:  timetable.RoutesByStop,
		routeStopsFile:    timetable.RouteStops,
		routeTripsFile:    timetable.RouteTrips,
		calendarIndexFile: timetable.CalendarIndex,
		transferIndexFile: encodeTransferIndex(timetable.TransferIndex),
		metaFile:          timetable.Meta,
	}

	for name, document := range documents {
		if err := writeDocument(directory, name, document); err != nil {
			return err
		}
	}

	return nil
}

// Load reads every persisted artifact back into one timetable. Any
// missing artifact is fatal for the caller: the engine cannot start
// from a partial build.
func Load(directory string) (*rtm.Timetable, error) {
	timetable := rtm.NewTimetable()

	if err := readDocument(directory, stopsFile, &timetable.Stops); err != nil {
		return nil, err
	}
	if err := readDocument(directory, routesInfoFile, &timetable.RoutesInfo); err != nil {
		return nil, err
	}
	if err := readDocument(directory, routesByStopFile, &timetable.RoutesByStop); err != nil {
		return nil, err
	}
	if err := readDocument(directory, routeStopsFile, &timetable.RouteStops); err != nil {
		return nil, err
	}
	if err := readDocument(directory, routeTripsFile, &timetable.RouteTrips); err != nil {
		return nil, err
	}
	if err := readDocument(directory, calendarIndexFile, &timetable.CalendarIndex); err != nil {
		return nil, err
	}

	encodedTransfers := map[string][]transferRecord{}
	if err := readDocument(directory, transferIndexFile, &encodedTransfers); err != nil {
		return nil, err
	}
	timetable.TransferIndex = decodeTransferIndex(encodedTransfers)

	if err := readDocument(directory, metaFile, &timetable.Meta); err != nil {
		return nil, err
	}

	// RouteID is not part of the persisted trip record; restore it from
	// the route each trip is stored under.
	for routeID, trips := range timetable.RouteTrips {
		for _, trip := range trips {
			trip.RouteID = routeID
		}
	}

	log.Info().
		Str("directory", directory).
		Int("stops", len(timetable.Stops)).
		Int("routes", len(timetable.RoutesInfo)).
		Msg("Loaded timetable artifacts")

	return timetable, nil
}
