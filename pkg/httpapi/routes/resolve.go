package routes

import (
	"strings"

	"github.com/railhop/railhop/pkg/reconcile"
	"github.com/railhop/railhop/pkg/search"
)

// responseCache is the slice of the response cache the handlers need.
type responseCache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

// resolveStops turns a from/to request parameter into concrete stop
// identifiers. Each comma-separated token may be a stop identifier, a
// station name or a city name; unknown tokens are silently dropped, so
// a request whose tokens all fail to resolve yields an empty set
// rather than an error.
func resolveStops(snapshot *search.TimetableSnapshot, parameter string) []string {
	var stopIDs []string

	for _, token := range strings.Split(parameter, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if snapshot.Timetable.Stops[token] != nil {
			stopIDs = append(stopIDs, token)
			continue
		}

		normalized := reconcile.NormalizeName(token)
		matched := false

		for _, station := range snapshot.Stations.Stations {
			if reconcile.NormalizeName(station.DisplayName) == normalized {
				stopIDs = append(stopIDs, station.MemberStopIDs...)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		for _, group := range snapshot.Stations.CityGroups {
			if reconcile.NormalizeName(group.City) == normalized {
				for _, station := range group.Stations {
					stopIDs = append(stopIDs, station.MemberStopIDs...)
				}
				break
			}
		}
	}

	return stopIDs
}

func splitList(parameter string) []string {
	var values []string
	for _, token := range strings.Split(parameter, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			values = append(values, token)
		}
	}

	return values
}
