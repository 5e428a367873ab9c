package feedreader

import (
	"strings"

	"github.com/railhop/railhop/pkg/util"
)

const routeTypeBus = 3

var sncfExcludedShortNames = []string{"CAR", "NAVETTE", "TRAMTRAIN"}
var sncbIncludedShortNames = []string{"IC", "EC", "NJ", "OTC"}

// KeepRoute applies the per-operator keep rules selecting the trains
// this planner models. Filtering happens before any cross-referencing
// so excluded routes never reach the timetable builder.
func KeepRoute(operator string, route RawRoute) bool {
	switch operator {
	case "SNCF":
		if route.Type == routeTypeBus {
			return false
		}

		return !util.ContainsString(sncfExcludedShortNames, strings.ToUpper(strings.TrimSpace(route.ShortName)))
	case "SNCB":
		return util.ContainsString(sncbIncludedShortNames, strings.ToUpper(strings.TrimSpace(route.ShortName)))
	default:
		return route.Type != routeTypeBus
	}
}
