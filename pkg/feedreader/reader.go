package feedreader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

func init() {
	// Allow us to ignore those naughty records that have missing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})
}

// stripBOM removes a UTF-8 byte order mark before the CSV reader sees
// it; several operator feeds ship one.
func stripBOM(reader io.Reader) io.Reader {
	buffered := bufio.NewReader(reader)

	lead, err := buffered.Peek(3)
	if err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		buffered.Discard(3)
	}

	return buffered
}

// readFile decodes one schedule file into destination. A missing file
// is a warning and leaves the destination empty.
func readFile(directory string, name string, destination interface{}) error {
	path := filepath.Join(directory, name)

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Warn().Str("file", path).Msg("Missing feed file, treating as empty")
		return nil
	} else if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.Unmarshal(stripBOM(file), destination); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}

// ReadOperator parses one operator directory into a normalized feed.
// Identifiers are prefixed with the operator code, keep rules are
// applied and malformed rows are skipped.
func ReadOperator(operator string, directory string) (*Feed, error) {
	var rawStops []RawStop
	var rawRoutes []RawRoute
	var rawTrips []RawTrip
	var rawStopTimes []RawStopTime
	var rawCalendars []RawCalendar
	var rawCalendarDates []RawCalendarDate
	var rawTransfers []RawTransfer

	files := map[string]interface{}{
		"stops.txt":          &rawStops,
		"routes.txt":         &rawRoutes,
		"trips.txt":          &rawTrips,
		"stop_times.txt":     &rawStopTimes,
		"calendar.txt":       &rawCalendars,
		"calendar_dates.txt": &rawCalendarDates,
		"transfers.txt":      &rawTransfers,
	}

	for name, destination := range files {
		if err := readFile(directory, name, destination); err != nil {
			return nil, err
		}
	}

	feed := &Feed{Operator: operator}
	prefix := func(id string) string {
		if id == "" {
			return ""
		}
		return operator + ":" + id
	}

	keptRoutes := map[string]bool{}
	for _, route := range rawRoutes {
		if route.ID == "" || !KeepRoute(operator, route) {
			continue
		}

		keptRoutes[route.ID] = true
		feed.Routes = append(feed.Routes, Route{
			ID:        prefix(route.ID),
			ShortName: route.ShortName,
			LongName:  route.LongName,
			Type:      route.Type,
		})
	}

	keptTrips := map[string]bool{}
	for _, trip := range rawTrips {
		if trip.ID == "" || !keptRoutes[trip.RouteID] {
			continue
		}

		keptTrips[trip.ID] = true
		feed.Trips = append(feed.Trips, Trip{
			ID:        prefix(trip.ID),
			RouteID:   prefix(trip.RouteID),
			ServiceID: prefix(trip.ServiceID),
			Headsign:  trip.Headsign,
			Name:      trip.Name,
		})
	}

	for _, stop := range rawStops {
		if stop.ID == "" {
			continue
		}

		feed.Stops = append(feed.Stops, Stop{
			ID:        prefix(stop.ID),
			Name:      stop.Name,
			Latitude:  stop.Latitude,
			Longitude: stop.Longitude,
			Parent:    prefix(stop.Parent),
		})
	}

	for _, stopTime := range rawStopTimes {
		if !keptTrips[stopTime.TripID] {
			continue
		}

		arrival, err := util.ParseFeedTime(stopTime.ArrivalTime)
		if err != nil {
			log.Debug().Str("trip", stopTime.TripID).Str("value", stopTime.ArrivalTime).Msg("Skipping malformed arrival time")
			continue
		}
		departure, err := util.ParseFeedTime(stopTime.DepartureTime)
		if err != nil {
			log.Debug().Str("trip", stopTime.TripID).Str("value", stopTime.DepartureTime).Msg("Skipping malformed departure time")
			continue
		}

		feed.StopTimes = append(feed.StopTimes, StopTime{
			TripID:        prefix(stopTime.TripID),
			StopID:        prefix(stopTime.StopID),
			ArrivalTime:   arrival,
			DepartureTime: departure,
			Sequence:      stopTime.StopSequence,
		})
	}

	for _, calendar := range rawCalendars {
		if calendar.ServiceID == "" {
			continue
		}

		feed.Calendars = append(feed.Calendars, Calendar{
			ServiceID: prefix(calendar.ServiceID),
			Weekdays: [7]bool{
				calendar.Monday == 1,
				calendar.Tuesday == 1,
				calendar.Wednesday == 1,
				calendar.Thursday == 1,
				calendar.Friday == 1,
				calendar.Saturday == 1,
				calendar.Sunday == 1,
			},
			StartDate: calendar.StartDate,
			EndDate:   calendar.EndDate,
		})
	}

	for _, calendarDate := range rawCalendarDates {
		if calendarDate.ServiceID == "" || calendarDate.Date == "" {
			continue
		}

		feed.CalendarDates = append(feed.CalendarDates, CalendarDate{
			ServiceID:     prefix(calendarDate.ServiceID),
			Date:          calendarDate.Date,
			ExceptionType: calendarDate.ExceptionType,
		})
	}

	for _, transfer := range rawTransfers {
		if transfer.FromStopID == "" || transfer.ToStopID == "" {
			continue
		}

		feed.Transfers = append(feed.Transfers, Transfer{
			FromStopID: prefix(transfer.FromStopID),
			ToStopID:   prefix(transfer.ToStopID),
		})
	}

	log.Info().
		Str("operator", operator).
		Int("stops", len(feed.Stops)).
		Int("routes", len(feed.Routes)).
		Int("trips", len(feed.Trips)).
		Int("stoptimes", len(feed.StopTimes)).
		Msg("Parsed operator feed")

	return feed, nil
}

// OperatorDirectory pairs an operator code with its feed directory.
type OperatorDirectory struct {
	Operator  string
	Directory string
}

// ReadAll parses every operator directory concurrently. Operators are
// independent and I/O bound so each gets its own goroutine.
func ReadAll(directories []OperatorDirectory) ([]*Feed, error) {
	p := pool.NewWithResults[*Feed]().WithErrors()

	for _, entry := range directories {
		p.Go(func() (*Feed, error) {
			return ReadOperator(entry.Operator, entry.Directory)
		})
	}

	feeds, err := p.Wait()
	if err != nil {
		return nil, err
	}

	return feeds, nil
}
