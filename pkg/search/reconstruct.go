package search

import (
	"sort"

	"github.com/railhop/railhop/pkg/rtm"
)

// reconstruct walks the predecessor map back from a destination to any
// origin, collapsing transfer-only edges into one leg per boarded trip.
// A re-visit of a stop along the back-walk means the parent map picked
// up a cycle through transfer edges; the candidate is abandoned.
func (snapshot *TimetableSnapshot) reconstruct(state *runState, destination string) *rtm.Journey {
	var legs []*rtm.Leg
	initialInterCity := false

	visited := map[string]bool{}
	current := destination

	for !state.origins[current] {
		if visited[current] {
			return nil
		}
		visited[current] = true

		parent, exists := state.parents[current]
		if !exists {
			return nil
		}

		switch entry := parent.(type) {
		case rideStep:
			legs = append(legs, &rtm.Leg{
				FromID:        entry.BoardStop,
				ToID:          current,
				FromName:      snapshot.StopNames[entry.BoardStop],
				ToName:        snapshot.StopNames[current],
				DepartureTime: entry.BoardDeparture,
				ArrivalTime:   entry.Arrival,
				TripID:        entry.TripID,
				RouteID:       entry.RouteID,
				RouteName:     snapshot.routeName(entry.RouteID),
				Operator:      entry.Operator,
				TrainType:     entry.TrainType,
				Duration:      (entry.Arrival - entry.BoardDeparture) / 60,
			})
			current = entry.BoardStop
		case transferStep:
			if state.origins[entry.FromStop] && entry.Category == rtm.TransferInterCitySameMetro {
				initialInterCity = true
			}
			current = entry.FromStop
		}
	}

	if len(legs) == 0 {
		return nil
	}

	// Legs were collected destination-first.
	for left, right := 0, len(legs)-1; left < right; left, right = left+1, right-1 {
		legs[left], legs[right] = legs[right], legs[left]
	}

	journey := &rtm.Journey{
		Legs:          legs,
		DepartureTime: legs[0].DepartureTime,
		ArrivalTime:   legs[len(legs)-1].ArrivalTime,
		Transfers:     len(legs) - 1,
		DestinationID: destination,
	}
	journey.Duration = (journey.ArrivalTime - journey.DepartureTime) / 60

	// Departing from an inter-city neighbour of the origin counts as
	// one transfer even though no trip was left.
	if initialInterCity {
		journey.Transfers += 1
	}

	trainTypes := map[string]bool{}
	for _, leg := range legs {
		trainTypes[leg.TrainType] = true
	}
	for trainType := range trainTypes {
		journey.TrainTypes = append(journey.TrainTypes, trainType)
	}
	sort.Strings(journey.TrainTypes)

	return journey
}

func (snapshot *TimetableSnapshot) routeName(routeID string) string {
	info := snapshot.Timetable.RoutesInfo[routeID]
	if info == nil {
		return ""
	}

	if info.LongName != "" {
		return info.LongName
	}

	return info.ShortName
}
