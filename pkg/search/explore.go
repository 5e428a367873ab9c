package search

import (
	"sort"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/sourcegraph/conc/pool"
)

// Explore seeds the search across a grid of hourly departure times
// spanning the service day.
var exploreSeedHours = []int{5, 7, 9, 11, 13, 15, 17, 19}

// Explore runs a destination-less search from each seed hour and keeps,
// per reachable stop, the journey with the smallest duration across all
// seeds. Each seed's round-based run is independent read-only
// computation over the shared snapshot, so the seeds fan out
// concurrently.
func (snapshot *TimetableSnapshot) Explore(origins []string, date string) map[string]*rtm.Journey {
	originSet := map[string]bool{}
	for _, origin := range origins {
		originSet[origin] = true
	}

	p := pool.NewWithResults[map[string]*rtm.Journey]()

	for _, seedHour := range exploreSeedHours {
		startTime := seedHour * 3600

		p.Go(func() map[string]*rtm.Journey {
			state := snapshot.runRounds(origins, startTime, date, nil)

			reached := map[string]*rtm.Journey{}

			stopIDs := make([]string, 0, len(state.tauBest))
			for stopID := range state.tauBest {
				stopIDs = append(stopIDs, stopID)
			}
			sort.Strings(stopIDs)

			for _, stopID := range stopIDs {
				if originSet[stopID] {
					continue
				}

				if journey := snapshot.reconstruct(state, stopID); journey != nil {
					reached[stopID] = journey
				}
			}

			return reached
		})
	}

	fastest := map[string]*rtm.Journey{}
	for _, seedResults := range p.Wait() {
		for stopID, journey := range seedResults {
			if current, exists := fastest[stopID]; !exists || journey.Duration < current.Duration {
				fastest[stopID] = journey
			}
		}
	}

	return fastest
}
