package search

import (
	"sort"
	"sync"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

// tripAtStop is one boardable entry at a stop: the trip, its route and
// the stop's position within the trip.
type tripAtStop struct {
	RouteID string
	Trip    *rtm.Trip
	Index   int
}

type stopTripIndex map[string][]tripAtStop

// At most this many date-filtered indexes are kept; entries are
// megabytes each and insertion is rare, so a single lock around the map
// is the right trade.
const dateCacheCapacity = 7

// TimetableSnapshot owns the immutable timetable plus the derived
// in-memory indexes built once at startup. The date-filtered index
// cache is the sole mutable structure; everything else is read
// concurrently by requests without synchronization.
type TimetableSnapshot struct {
	Timetable *rtm.Timetable
	Stations  *rtm.StationIndex

	// StopNames maps stop id to canonical display name, with manifest
	// names overriding feed names where available.
	StopNames map[string]string

	unfiltered stopTripIndex

	cacheMutex sync.Mutex
	dateCache  map[string]stopTripIndex
	dateOrder  []string
}

// NewSnapshot builds the derived indexes over the full timetable. The
// nameOverrides map carries manifest display names keyed by stop id.
func NewSnapshot(timetable *rtm.Timetable, stations *rtm.StationIndex, nameOverrides map[string]string) *TimetableSnapshot {
	snapshot := &TimetableSnapshot{
		Timetable: timetable,
		Stations:  stations,
		StopNames: map[string]string{},
		dateCache: map[string]stopTripIndex{},
	}

	for stopID, stop := range timetable.Stops {
		snapshot.StopNames[stopID] = stop.Name
	}
	for stopID, name := range nameOverrides {
		if name != "" {
			snapshot.StopNames[stopID] = name
		}
	}

	snapshot.unfiltered = buildStopTripIndex(timetable, nil)

	log.Info().
		Int("stops", len(snapshot.unfiltered)).
		Msg("Built stop-to-trips index")

	return snapshot
}

// buildStopTripIndex indexes every trip occurrence per stop, optionally
// restricted to an active-service set. Routes are walked in sorted
// order so insertion order, and therefore tie-breaking between trips,
// is deterministic.
func buildStopTripIndex(timetable *rtm.Timetable, activeServices map[string]bool) stopTripIndex {
	index := stopTripIndex{}

	routeIDs := maps.Keys(timetable.RouteTrips)
	sort.Strings(routeIDs)

	for _, routeID := range routeIDs {
		for _, trip := range timetable.RouteTrips[routeID] {
			if activeServices != nil && !activeServices[trip.ServiceID] {
				continue
			}

			for position, stopTime := range trip.StopTimes {
				index[stopTime.StopID] = append(index[stopTime.StopID], tripAtStop{
					RouteID: routeID,
					Trip:    trip,
					Index:   position,
				})
			}
		}
	}

	return index
}

// indexForDate returns the stop-to-trips index restricted to services
// active on the date, rebuilding and caching it on first use. An empty
// date returns the unfiltered index.
func (snapshot *TimetableSnapshot) indexForDate(date string) stopTripIndex {
	if date == "" {
		return snapshot.unfiltered
	}

	snapshot.cacheMutex.Lock()
	if cached, exists := snapshot.dateCache[date]; exists {
		snapshot.cacheMutex.Unlock()
		return cached
	}
	snapshot.cacheMutex.Unlock()

	// Build outside the lock; a concurrent duplicate build is cheaper
	// than holding the lock for the whole rebuild.
	index := buildStopTripIndex(snapshot.Timetable, snapshot.Timetable.ActiveServices(date))

	snapshot.cacheMutex.Lock()
	defer snapshot.cacheMutex.Unlock()

	if cached, exists := snapshot.dateCache[date]; exists {
		return cached
	}

	if len(snapshot.dateOrder) >= dateCacheCapacity {
		oldest := snapshot.dateOrder[0]
		snapshot.dateOrder = snapshot.dateOrder[1:]
		delete(snapshot.dateCache, oldest)
	}

	snapshot.dateCache[date] = index
	snapshot.dateOrder = append(snapshot.dateOrder, date)

	return index
}
