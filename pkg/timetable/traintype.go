package timetable

import (
	"regexp"
	"strconv"
	"strings"
)

// TripFacts is everything the classification rules can key on: the
// platform token embedded in the stop-point identifier, substrings of
// the trip identifier and the route short name.
type TripFacts struct {
	Operator       string
	TripID         string
	TripNumber     int
	RouteShortName string
	FirstStopID    string
}

type trainTypeRule struct {
	Operator string
	Match    func(facts TripFacts) bool
	Type     string
}

var tripNumberPattern = regexp.MustCompile(`(\d{3,6})`)

// ExtractTripNumber pulls the train number out of a prefixed trip
// identifier; zero when none is embedded.
func ExtractTripNumber(tripID string) int {
	match := tripNumberPattern.FindString(tripID)
	if match == "" {
		return 0
	}

	number, _ := strconv.Atoi(match)
	return number
}

func stopToken(token string) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		return strings.Contains(facts.FirstStopID, token)
	}
}

func tripContains(token string) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		return strings.Contains(strings.ToUpper(facts.TripID), token)
	}
}

func routeShort(names ...string) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		short := strings.ToUpper(strings.TrimSpace(facts.RouteShortName))
		for _, name := range names {
			if short == name {
				return true
			}
		}
		return false
	}
}

func tripNumberBetween(low int, high int) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		return facts.TripNumber >= low && facts.TripNumber <= high
	}
}

func all(predicates ...func(TripFacts) bool) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		for _, predicate := range predicates {
			if !predicate(facts) {
				return false
			}
		}
		return true
	}
}

func anyFact(predicates ...func(TripFacts) bool) func(TripFacts) bool {
	return func(facts TripFacts) bool {
		for _, predicate := range predicates {
			if predicate(facts) {
				return true
			}
		}
		return false
	}
}

// Rules are evaluated top to bottom per operator; the first match wins.
// SNCF classification leans on the commercial-platform token the feed
// embeds in stop-point identifiers ("OCETGV INOUI-87686006"); OUIGO is
// sub-classified by train number range, 7xxx running on the high-speed
// network and 4xxx on the classic one.
var trainTypeRules = []trainTypeRule{
	{"SNCF", stopToken("Lyria"), "LYRIA"},
	{"SNCF", all(anyFact(stopToken("OUIGO"), routeShort("OUIGO")), tripNumberBetween(7000, 7999)), "OUIGO"},
	{"SNCF", all(anyFact(stopToken("OUIGO"), routeShort("OUIGO")), tripNumberBetween(4000, 4999)), "OUIGO_CLASSIQUE"},
	{"SNCF", anyFact(stopToken("OUIGO"), routeShort("OUIGO")), "OUIGO"},
	{"SNCF", stopToken("INTERCITES de nuit"), "IC_NUIT"},
	{"SNCF", stopToken("INTERCITES"), "IC"},
	{"SNCF", stopToken("TGV INOUI"), "INOUI"},
	{"SNCF", stopToken("Train TER"), "TER"},
	{"SNCF", routeShort("TER"), "TER"},
	{"SNCF", nil, "INOUI"},

	{"TI", nil, "FRECCIAROSSA"},

	{"ES", anyFact(tripContains("THA"), routeShort("THALYS")), "THALYS_CORRIDOR"},
	{"ES", nil, "EUROSTAR"},

	{"SNCB", routeShort("NJ"), "NIGHTJET"},
	{"SNCB", routeShort("EC"), "EC"},
	{"SNCB", nil, "IC_SNCB"},

	{"DB", anyFact(routeShort("ICE"), tripContains("ICE")), "ICE"},
	{"DB", anyFact(routeShort("NJ"), tripContains("NJ")), "NIGHTJET"},
	{"DB", routeShort("EC"), "EC"},
	{"DB", nil, "IC_DB"},

	{"RENFE", anyFact(routeShort("ALVIA"), tripContains("ALVIA")), "ALVIA"},
	{"RENFE", nil, "AVE"},

	{"OUIGO_ES", nil, "OUIGO"},
}

// AssignTrainType labels one trip with its product classification. The
// label is stored on the trip at build time, never recomputed per
// query.
func AssignTrainType(facts TripFacts) string {
	for _, rule := range trainTypeRules {
		if rule.Operator != facts.Operator {
			continue
		}

		if rule.Match == nil || rule.Match(facts) {
			return rule.Type
		}
	}

	return "UNKNOWN"
}
