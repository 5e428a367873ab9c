package timetable

import (
	"sort"
	"time"

	"github.com/railhop/railhop/pkg/feedreader"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

var routeTypeNames = map[int]string{
	0: "tram",
	1: "metro",
	2: "rail",
	3: "bus",
	4: "ferry",
}

// Build assembles the merged timetable from every operator's normalized
// feed: canonical trips, route-based indexes and the per-date
// active-service index.
func Build(feeds []*feedreader.Feed) *rtm.Timetable {
	timetable := rtm.NewTimetable()

	var operators []string
	var allCalendars []feedreader.Calendar
	var allCalendarDates []feedreader.CalendarDate

	for _, feed := range feeds {
		operators = append(operators, feed.Operator)
		allCalendars = append(allCalendars, feed.Calendars...)
		allCalendarDates = append(allCalendarDates, feed.CalendarDates...)

		for _, stop := range feed.Stops {
			timetable.Stops[stop.ID] = &rtm.Stop{
				Name:      stop.Name,
				Latitude:  stop.Latitude,
				Longitude: stop.Longitude,
				Operator:  feed.Operator,
			}
		}

		routeShortNames := map[string]string{}
		for _, route := range feed.Routes {
			routeShortNames[route.ID] = route.ShortName

			routeType := routeTypeNames[route.Type]
			if routeType == "" {
				routeType = "rail"
			}

			timetable.RoutesInfo[route.ID] = &rtm.RouteInfo{
				ShortName: route.ShortName,
				LongName:  route.LongName,
				Type:      routeType,
				Operator:  feed.Operator,
			}
		}

		buildTrips(timetable, feed, routeShortNames)
	}

	timetable.CalendarIndex = ExpandCalendars(allCalendars, allCalendarDates)

	buildRouteIndexes(timetable)

	timetable.Meta = rtm.Meta{
		BuiltAt:   time.Now().UTC().Format(time.RFC3339),
		Operators: util.RemoveDuplicateStrings(operators, nil),
		Counts: map[string]int{
			"stops":  len(timetable.Stops),
			"routes": len(timetable.RoutesInfo),
			"trips":  countTrips(timetable),
			"dates":  len(timetable.CalendarIndex),
		},
	}

	log.Info().
		Int("stops", len(timetable.Stops)).
		Int("routes", len(timetable.RoutesInfo)).
		Int("trips", timetable.Meta.Counts["trips"]).
		Msg("Built merged timetable")

	return timetable
}

// buildTrips groups one feed's stop times per trip, repairs them into
// canonical non-decreasing lists and attaches the product label.
func buildTrips(timetable *rtm.Timetable, feed *feedreader.Feed, routeShortNames map[string]string) {
	tripStopSequenceMap := map[string]map[int]feedreader.StopTime{}
	for _, stopTime := range feed.StopTimes {
		if _, exists := tripStopSequenceMap[stopTime.TripID]; !exists {
			tripStopSequenceMap[stopTime.TripID] = map[int]feedreader.StopTime{}
		}
		tripStopSequenceMap[stopTime.TripID][stopTime.Sequence] = stopTime
	}

	for _, feedTrip := range feed.Trips {
		sequenceMap := tripStopSequenceMap[feedTrip.ID]
		if len(sequenceMap) == 0 {
			continue
		}

		sequenceIDs := maps.Keys(sequenceMap)
		sort.Ints(sequenceIDs)

		stopTimes := make([]rtm.StopTime, 0, len(sequenceIDs))
		for _, sequenceID := range sequenceIDs {
			stopTime := sequenceMap[sequenceID]
			stopTimes = append(stopTimes, rtm.StopTime{
				StopID:        stopTime.StopID,
				ArrivalTime:   stopTime.ArrivalTime,
				DepartureTime: stopTime.DepartureTime,
			})
		}

		stopTimes = RepairStopTimes(feedTrip.ID, stopTimes)
		if len(stopTimes) == 0 {
			continue
		}

		trip := &rtm.Trip{
			TripID:             feedTrip.ID,
			RouteID:            feedTrip.RouteID,
			ServiceID:          feedTrip.ServiceID,
			Operator:           feed.Operator,
			FirstDepartureTime: stopTimes[0].DepartureTime,
			StopTimes:          stopTimes,
		}

		trip.TrainType = AssignTrainType(TripFacts{
			Operator:       feed.Operator,
			TripID:         feedTrip.ID,
			TripNumber:     ExtractTripNumber(feedTrip.ID),
			RouteShortName: routeShortNames[feedTrip.RouteID],
			FirstStopID:    stopTimes[0].StopID,
		})

		timetable.RouteTrips[feedTrip.RouteID] = append(timetable.RouteTrips[feedTrip.RouteID], trip)
	}
}

// buildRouteIndexes derives the route-shaped lookups round-based search
// needs: per-route trips sorted by first departure, the longest
// observed stop sequence per route, and the inverted stop-to-routes
// set.
func buildRouteIndexes(timetable *rtm.Timetable) {
	for routeID, trips := range timetable.RouteTrips {
		sort.SliceStable(trips, func(a int, b int) bool {
			return trips[a].FirstDepartureTime < trips[b].FirstDepartureTime
		})

		var longest *rtm.Trip
		for _, trip := range trips {
			if longest == nil || len(trip.StopTimes) > len(longest.StopTimes) {
				longest = trip
			}
		}

		stopIDs := make([]string, 0, len(longest.StopTimes))
		for _, stopTime := range longest.StopTimes {
			stopIDs = append(stopIDs, stopTime.StopID)
		}
		timetable.RouteStops[routeID] = stopIDs

		for _, stopID := range stopIDs {
			if !util.ContainsString(timetable.RoutesByStop[stopID], routeID) {
				timetable.RoutesByStop[stopID] = append(timetable.RoutesByStop[stopID], routeID)
			}
		}
	}

	for _, routeIDs := range timetable.RoutesByStop {
		sort.Strings(routeIDs)
	}
}

func countTrips(timetable *rtm.Timetable) int {
	count := 0
	for _, trips := range timetable.RouteTrips {
		count += len(trips)
	}

	return count
}
