package search

import (
	"sort"

	"github.com/railhop/railhop/pkg/rtm"
	"golang.org/x/exp/maps"
)

const maxRounds = 5

// step is the predecessor-map entry: either a boarded ride or a walked
// transfer. The two shapes share nothing beyond being steps, so they
// are a sum type rather than a flag on a unified record.
type step interface {
	isStep()
}

type rideStep struct {
	BoardStop      string
	BoardDeparture int
	Arrival        int
	TripID         string
	RouteID        string
	TrainType      string
	Operator       string
}

func (rideStep) isStep() {}

type transferStep struct {
	FromStop string
	Arrival  int
	Category rtm.TransferCategory
}

func (transferStep) isStep() {}

// runState is the outcome of one round-based core invocation for one
// start time.
type runState struct {
	tauBest map[string]int
	parents map[string]step
	origins map[string]bool
}

// runRounds executes the round-based core: seed the origins and their
// transfer neighbours, then alternate trip scans and transfer
// relaxation for up to maxRounds rounds, stopping early when a round
// marks nothing.
func (snapshot *TimetableSnapshot) runRounds(origins []string, startTime int, date string, allow map[string]bool) *runState {
	stopToTrips := snapshot.indexForDate(date)
	tiOffset := trenitaliaOffset(date)
	transfers := snapshot.Timetable.TransferIndex

	state := &runState{
		tauBest: map[string]int{},
		parents: map[string]step{},
		origins: map[string]bool{},
	}

	marked := map[string]bool{}

	for _, origin := range origins {
		if snapshot.Timetable.Stops[origin] == nil {
			continue
		}

		state.origins[origin] = true
		state.tauBest[origin] = startTime
		marked[origin] = true
	}

	// Transfer neighbours of the origins are reachable before any trip
	// is boarded. Inter-city neighbours stay out of the origin set so a
	// journey departing from one counts as a transfer.
	for origin := range state.origins {
		for _, entry := range transfers[origin] {
			seeded := startTime + entry.Category.MinimumDwell()

			if best, exists := state.tauBest[entry.SiblingID]; !exists || seeded < best {
				state.tauBest[entry.SiblingID] = seeded
				state.parents[entry.SiblingID] = transferStep{
					FromStop: origin,
					Arrival:  seeded,
					Category: entry.Category,
				}
				marked[entry.SiblingID] = true
			}
		}
	}

	for round := 0; round < maxRounds && len(marked) > 0; round += 1 {
		// Boarding eligibility is judged against arrival times as they
		// stood when the round began.
		tauPrev := map[string]int{}
		maps.Copy(tauPrev, state.tauBest)

		tauCur := map[string]int{}
		nextMarked := map[string]bool{}

		markedStops := maps.Keys(marked)
		sort.Strings(markedStops)

		for _, stop := range markedStops {
			for _, entry := range stopToTrips[stop] {
				trip := entry.Trip

				if allow != nil && !allow[trip.TrainType] {
					continue
				}

				boardPosition := -1
				for position := entry.Index; position < len(trip.StopTimes); position += 1 {
					arrival, reached := tauPrev[trip.StopTimes[position].StopID]
					if reached && arrival <= departureAt(trip, position, tiOffset) {
						boardPosition = position
						break
					}
				}
				if boardPosition < 0 {
					continue
				}

				boardStop := trip.StopTimes[boardPosition].StopID
				boardDeparture := departureAt(trip, boardPosition, tiOffset)

				for position := boardPosition + 1; position < len(trip.StopTimes); position += 1 {
					arrival := arrivalAt(trip, position, tiOffset)
					stopID := trip.StopTimes[position].StopID

					if best, exists := state.tauBest[stopID]; !exists || arrival < best {
						state.tauBest[stopID] = arrival
						tauCur[stopID] = arrival
						state.parents[stopID] = rideStep{
							BoardStop:      boardStop,
							BoardDeparture: boardDeparture,
							Arrival:        arrival,
							TripID:         trip.TripID,
							RouteID:        entry.RouteID,
							TrainType:      trip.TrainType,
							Operator:       trip.Operator,
						}
						nextMarked[stopID] = true
					}
				}
			}
		}

		// Transfer relaxation over everything improved this round.
		improvedStops := maps.Keys(tauCur)
		sort.Strings(improvedStops)

		for _, stop := range improvedStops {
			for _, entry := range transfers[stop] {
				relaxed := tauCur[stop] + entry.Category.MinimumDwell()

				if best, exists := state.tauBest[entry.SiblingID]; !exists || relaxed < best {
					state.tauBest[entry.SiblingID] = relaxed
					state.parents[entry.SiblingID] = transferStep{
						FromStop: stop,
						Arrival:  relaxed,
						Category: entry.Category,
					}
					nextMarked[entry.SiblingID] = true
				}
			}
		}

		marked = nextMarked
	}

	return state
}
