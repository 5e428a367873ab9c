package search

import (
	"sort"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/rs/zerolog/log"
)

// Start-time advancement when an invocation yields nothing new, the
// number of consecutive empty advances tolerated, and the horizon the
// advancement may span.
const (
	emptyAdvanceStep = 30 * 60
	maxEmptyAdvances = 4
	advanceHorizon   = 14 * 3600
)

// Request is one journey query: one or more origin stops, one or more
// destination stops, a departure floor, a service date and an optional
// train-type allow-set.
type Request struct {
	Origins      []string
	Destinations []string
	StartTime    int
	Date         string
	TrainTypes   []string
}

func allowSet(trainTypes []string) map[string]bool {
	if len(trainTypes) == 0 {
		return nil
	}

	allow := map[string]bool{}
	for _, trainType := range trainTypes {
		allow[trainType] = true
	}

	return allow
}

// searchOnce runs the round-based core for one start time and
// reconstructs a journey per reached destination.
func (snapshot *TimetableSnapshot) searchOnce(request Request, startTime int, allow map[string]bool) []*rtm.Journey {
	state := snapshot.runRounds(request.Origins, startTime, request.Date, allow)

	var journeys []*rtm.Journey
	for _, destination := range request.Destinations {
		if _, reached := state.tauBest[destination]; !reached {
			continue
		}

		if journey := snapshot.reconstruct(state, destination); journey != nil {
			journeys = append(journeys, journey)
		}
	}

	return journeys
}

// Search enumerates journeys by repeating the round-based core with
// successively later start times, deduplicates them by trip sequence
// and destination stop, sorts by (transfers, duration, departure) and
// collapses same-city arrivals.
func (snapshot *TimetableSnapshot) Search(request Request) []*rtm.Journey {
	allow := allowSet(request.TrainTypes)

	var journeys []*rtm.Journey
	seen := map[string]bool{}

	startTime := request.StartTime
	emptyAdvances := 0

	for startTime-request.StartTime <= advanceHorizon && emptyAdvances < maxEmptyAdvances {
		batch := snapshot.searchOnce(request, startTime, allow)

		var fresh []*rtm.Journey
		for _, journey := range batch {
			// The same trip sequence reaching two arrival-side platforms
			// is two candidates; city deduplication arbitrates later.
			key := journey.TripKey() + journey.DestinationID
			if !seen[key] {
				seen[key] = true
				fresh = append(fresh, journey)
			}
		}

		if len(fresh) == 0 {
			startTime += emptyAdvanceStep
			emptyAdvances += 1
			continue
		}

		emptyAdvances = 0
		journeys = append(journeys, fresh...)

		latestDeparture := fresh[0].DepartureTime
		for _, journey := range fresh[1:] {
			if journey.DepartureTime > latestDeparture {
				latestDeparture = journey.DepartureTime
			}
		}
		startTime = latestDeparture + 1
	}

	sort.SliceStable(journeys, func(a int, b int) bool {
		if journeys[a].Transfers != journeys[b].Transfers {
			return journeys[a].Transfers < journeys[b].Transfers
		}
		if journeys[a].Duration != journeys[b].Duration {
			return journeys[a].Duration < journeys[b].Duration
		}
		return journeys[a].DepartureTime < journeys[b].DepartureTime
	})

	journeys = snapshot.dedupeCityArrivals(journeys)

	log.Debug().
		Int("journeys", len(journeys)).
		Int("startTime", request.StartTime).
		Str("date", request.Date).
		Msg("Search complete")

	return journeys
}

// dedupeCityArrivals keeps, per (departure time, arrival city), only
// the journey with the smaller duration so one physical departure does
// not appear once per arrival-side platform. Runs on the sorted list,
// so among journeys of equal duration for a key the first one is kept.
// Journeys whose destination has no known city are always kept.
func (snapshot *TimetableSnapshot) dedupeCityArrivals(journeys []*rtm.Journey) []*rtm.Journey {
	type cityArrival struct {
		departure int
		city      rtm.CityKey
	}

	best := map[cityArrival]*rtm.Journey{}
	for _, journey := range journeys {
		city, known := snapshot.Stations.CityKeyForStop(journey.DestinationID)
		if !known {
			continue
		}

		key := cityArrival{departure: journey.DepartureTime, city: city}
		if current, exists := best[key]; !exists || journey.Duration < current.Duration {
			best[key] = journey
		}
	}

	kept := journeys[:0]
	for _, journey := range journeys {
		city, known := snapshot.Stations.CityKeyForStop(journey.DestinationID)
		if known && best[cityArrival{departure: journey.DepartureTime, city: city}] != journey {
			continue
		}

		kept = append(kept, journey)
	}

	return kept
}
