package reconcile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

// UIC country prefixes covering the operators this planner merges.
var uicCountryPrefixes = map[string]string{
	"87": "FR", "86": "FR",
	"88": "BE",
	"80": "DE", "81": "DE",
	"82": "AT",
	"83": "IT",
	"84": "ES",
	"85": "PT",
	"71": "ES",
	"70": "GB",
	"74": "CH",
	"79": "NL", "78": "NL",
	"55": "PL",
	"54": "CZ",
	"53": "SK",
}

// Known bad geographic links: pairs of normalized stop names that sit
// within pairing distance but are distinct stations. The Paris-Est to
// paris_nord false positive is the canonical case.
var stationLinkBlacklist = map[[2]string]bool{
	{"paris est", "paris nord"}:                 true,
	{"milano greco pirelli", "milano centrale"}: true,
}

func blacklisted(nameA string, nameB string) bool {
	return stationLinkBlacklist[[2]string{nameA, nameB}] || stationLinkBlacklist[[2]string{nameB, nameA}]
}

// Operator presence decides station ordering: feeds with richer
// metadata win the display slot.
var operatorScores = map[string]int{
	"SNCF":     50,
	"RENFE":    40,
	"OUIGO_ES": 30,
	"ES":       20,
	"TI":       10,
}

var uicSuffixPattern = regexp.MustCompile(`([0-9]{8})[^0-9]*$`)
var eurostarSlugSuffix = regexp.MustCompile(`_[0-9]+$`)

// StopUIC extracts the embedded 8-digit UIC code from a stop
// identifier, empty when none is present.
func StopUIC(stopID string) string {
	match := uicSuffixPattern.FindStringSubmatch(stopID)
	if match == nil {
		return ""
	}

	return match[1]
}

// CountryForStop infers a country from the UIC prefix map, with
// Spanish operators forced to ES regardless of identifier shape.
func CountryForStop(stopID string) string {
	operator := rtm.StopOperator(stopID)
	if operator == "RENFE" || operator == "OUIGO_ES" {
		return "ES"
	}

	uic := StopUIC(stopID)
	if len(uic) >= 2 {
		if country, exists := uicCountryPrefixes[uic[:2]]; exists {
			return country
		}
	}

	return ""
}

// eurostarSlugName turns an Eurostar stop slug ("ES:paris_nord_3")
// into the comparison key of the station it names.
func eurostarSlugName(stopID string) string {
	slug := strings.TrimPrefix(stopID, "ES:")
	slug = eurostarSlugSuffix.ReplaceAllString(slug, "")

	return NormalizeName(strings.ReplaceAll(slug, "_", " "))
}

type stationBuilder struct {
	stops map[string]*rtm.Stop

	stations      []*rtm.Station
	stationByStop map[string]*rtm.Station
	stationUICs   map[*rtm.Station]map[string]bool
}

func (b *stationBuilder) assign(station *rtm.Station, stopID string) {
	if b.stationByStop[stopID] != nil {
		return
	}

	station.MemberStopIDs = append(station.MemberStopIDs, stopID)
	b.stationByStop[stopID] = station

	if uic := StopUIC(stopID); uic != "" {
		if b.stationUICs[station] == nil {
			b.stationUICs[station] = map[string]bool{}
		}
		b.stationUICs[station][uic] = true
	}
}

func (b *stationBuilder) newStation(name string, city string, country string) *rtm.Station {
	station := &rtm.Station{
		DisplayName: name,
		City:        city,
		Country:     country,
	}
	b.stations = append(b.stations, station)

	return station
}

// BuildStationIndex reconciles the stop universe into logical stations.
// The pass order matters: curated manifest first, Eurostar slug
// heuristics, then the feed-provided whitelist, then orphan folding.
// The whole reconciliation is idempotent over its inputs, so the query
// engine can re-run it at startup from persisted artifacts.
func BuildStationIndex(stops map[string]*rtm.Stop, manifest []ManifestStation, whitelist [][2]string, parents map[string]string) *rtm.StationIndex {
	builder := &stationBuilder{
		stops:         stops,
		stationByStop: map[string]*rtm.Station{},
		stationUICs:   map[*rtm.Station]map[string]bool{},
	}

	// Primary pass: the curated manifest is authoritative.
	for _, entry := range manifest {
		station := builder.newStation(entry.Name, entry.City, entry.Country)
		station.Latitude = entry.Latitude
		station.Longitude = entry.Longitude

		for _, stopID := range entry.StopIDs {
			if stops[stopID] == nil {
				continue
			}
			builder.assign(station, stopID)
		}

		if uic := entry.UIC; uic != "" {
			if builder.stationUICs[station] == nil {
				builder.stationUICs[station] = map[string]bool{}
			}
			builder.stationUICs[station][uic] = true
		}
	}

	stationsByName := map[string][]*rtm.Station{}
	for _, station := range builder.stations {
		stationsByName[NormalizeName(station.DisplayName)] = append(stationsByName[NormalizeName(station.DisplayName)], station)
	}

	// Eurostar slugs name the station they belong to.
	for stopID := range stops {
		if rtm.StopOperator(stopID) != "ES" || builder.stationByStop[stopID] != nil {
			continue
		}

		slugName := eurostarSlugName(stopID)
		if candidates := stationsByName[slugName]; len(candidates) > 0 {
			builder.assign(candidates[0], stopID)
		}
	}

	// Whitelist pass: the feed's own transfer table links platforms the
	// manifest missed, except where the blacklist vetoes the edge.
	for _, pair := range whitelist {
		stopA, stopB := pair[0], pair[1]
		if stops[stopA] == nil || stops[stopB] == nil {
			continue
		}
		if blacklisted(stopName(stops, stopA), stopName(stops, stopB)) {
			continue
		}

		stationA := builder.stationByStop[stopA]
		stationB := builder.stationByStop[stopB]

		if stationA != nil && stationB == nil {
			builder.assign(stationA, stopB)
		} else if stationA == nil && stationB != nil {
			builder.assign(stationB, stopA)
		}
	}

	foldOrphans(builder, parents)

	fuseEurostarDuplicates(builder, whitelist)

	finalizeStations(builder)

	index := &rtm.StationIndex{Stations: builder.stations}
	index.BuildLookups()

	log.Info().
		Int("stations", len(index.Stations)).
		Int("cityGroups", len(index.CityGroups)).
		Msg("Reconciled station index")

	return index
}

func stopName(stops map[string]*rtm.Stop, stopID string) string {
	if stop := stops[stopID]; stop != nil {
		return NormalizeName(stop.Name)
	}

	return ""
}

// foldOrphans assigns every remaining stop to a station: first through
// the feed's administrative parent area when one was provided, then by
// grouping same-normalized-name siblings into a new orphan station.
func foldOrphans(builder *stationBuilder, parents map[string]string) {
	unassigned := maps.Keys(builder.stops)
	sort.Strings(unassigned)

	for _, stopID := range unassigned {
		if builder.stationByStop[stopID] != nil {
			continue
		}

		if parentID := parents[stopID]; parentID != "" {
			if station := builder.stationByStop[parentID]; station != nil {
				builder.assign(station, stopID)
			}
		}
	}

	orphansByName := map[string][]string{}
	for _, stopID := range unassigned {
		if builder.stationByStop[stopID] != nil {
			continue
		}

		orphansByName[stopName(builder.stops, stopID)] = append(orphansByName[stopName(builder.stops, stopID)], stopID)
	}

	orphanNames := maps.Keys(orphansByName)
	sort.Strings(orphanNames)

	for _, name := range orphanNames {
		stopIDs := orphansByName[name]

		station := builder.newStation(builder.stops[stopIDs[0]].Name, "", CountryForStop(stopIDs[0]))
		for _, stopID := range stopIDs {
			builder.assign(station, stopID)
		}
	}
}

// fuseEurostarDuplicates merges a station known only by ES identifiers
// into an SNCF-identified station it is linked to by a whitelist pair,
// dropping the duplicate. The two must share a UIC code, unless the ES
// station carries no UIC code at all, in which case the whitelist link
// alone decides.
func fuseEurostarDuplicates(builder *stationBuilder, whitelist [][2]string) {
	for _, pair := range whitelist {
		stationA := builder.stationByStop[pair[0]]
		stationB := builder.stationByStop[pair[1]]
		if stationA == nil || stationB == nil || stationA == stationB {
			continue
		}

		sncfStation, esStation := stationA, stationB
		if !hasOperatorMembers(esStation, "ES") || hasOperatorMembers(esStation, "SNCF") {
			sncfStation, esStation = stationB, stationA
		}
		if !hasOperatorMembers(sncfStation, "SNCF") || hasOperatorMembers(esStation, "SNCF") || !onlyOperator(esStation, "ES") {
			continue
		}
		if !sharesUIC(builder, sncfStation, esStation) && len(builder.stationUICs[esStation]) > 0 {
			continue
		}

		for _, stopID := range esStation.MemberStopIDs {
			delete(builder.stationByStop, stopID)
			builder.assign(sncfStation, stopID)
		}
		esStation.MemberStopIDs = nil
	}

	var kept []*rtm.Station
	for _, station := range builder.stations {
		if len(station.MemberStopIDs) > 0 {
			kept = append(kept, station)
		}
	}
	builder.stations = kept
}

func hasOperatorMembers(station *rtm.Station, operator string) bool {
	for _, stopID := range station.MemberStopIDs {
		if rtm.StopOperator(stopID) == operator {
			return true
		}
	}

	return false
}

func onlyOperator(station *rtm.Station, operator string) bool {
	for _, stopID := range station.MemberStopIDs {
		if rtm.StopOperator(stopID) != operator {
			return false
		}
	}

	return len(station.MemberStopIDs) > 0
}

func sharesUIC(builder *stationBuilder, stationA *rtm.Station, stationB *rtm.Station) bool {
	for uic := range builder.stationUICs[stationA] {
		if builder.stationUICs[stationB][uic] {
			return true
		}
	}

	return false
}

// finalizeStations fills derived fields and applies the final ordering:
// operator-presence score first, name second.
func finalizeStations(builder *stationBuilder) {
	for _, station := range builder.stations {
		var operators []string
		var latitudeSum, longitudeSum float64
		located := 0

		for _, stopID := range station.MemberStopIDs {
			operators = append(operators, rtm.StopOperator(stopID))

			if stop := builder.stops[stopID]; stop != nil && (stop.Latitude != 0 || stop.Longitude != 0) {
				latitudeSum += stop.Latitude
				longitudeSum += stop.Longitude
				located += 1
			}
		}

		station.Operators = util.RemoveDuplicateStrings(operators, nil)
		sort.Strings(station.Operators)

		if station.Latitude == 0 && station.Longitude == 0 && located > 0 {
			station.Latitude = latitudeSum / float64(located)
			station.Longitude = longitudeSum / float64(located)
		}

		sort.Strings(station.MemberStopIDs)
	}

	sort.SliceStable(builder.stations, func(a int, b int) bool {
		scoreA := presenceScore(builder.stations[a])
		scoreB := presenceScore(builder.stations[b])
		if scoreA != scoreB {
			return scoreA > scoreB
		}

		return builder.stations[a].DisplayName < builder.stations[b].DisplayName
	})
}

func presenceScore(station *rtm.Station) int {
	best := 0
	for _, operator := range station.Operators {
		if score := operatorScores[operator]; score > best {
			best = score
		}
	}

	return best
}
