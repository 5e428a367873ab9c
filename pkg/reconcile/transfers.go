package reconcile

import (
	"runtime"
	"sort"

	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/maps"
)

// Stops within this distance of each other are paired as walkable
// siblings. Experimentally derived.
const geoPairingThresholdMetres = 300

type transferPair struct {
	From     string
	To       string
	Category rtm.TransferCategory
}

// BuildTransferIndex produces the per-stop walking edges and their
// categories. Construction order is geography, then manifest overrides,
// then cross-operator name links, then inter-city links from the
// station index. The category is a property of the edge, decided by the
// originating side; consumers must not assume symmetry.
func BuildTransferIndex(stops map[string]*rtm.Stop, manifest []ManifestStation, stations *rtm.StationIndex) map[string][]rtm.TransferEntry {
	categories := map[string]map[string]rtm.TransferCategory{}

	link := func(from string, to string, category rtm.TransferCategory) {
		if from == to || stops[from] == nil || stops[to] == nil {
			return
		}
		if categories[from] == nil {
			categories[from] = map[string]rtm.TransferCategory{}
		}
		categories[from][to] = category
	}

	for _, pair := range geographicPairs(stops) {
		link(pair.From, pair.To, pair.Category)
		link(pair.To, pair.From, pair.Category)
	}

	// The curated manifest overrides whatever geography said: every
	// unordered pair within a station is a same-station link.
	for _, entry := range manifest {
		for _, stopA := range entry.StopIDs {
			for _, stopB := range entry.StopIDs {
				if stopA >= stopB {
					continue
				}

				category := rtm.CategoryForPair(stopA, stopB)
				link(stopA, stopB, category)
				link(stopB, stopA, category)
			}
		}
	}

	linkTrenitaliaByName(stops, link)

	linkInterCity(stations, link)

	index := map[string][]rtm.TransferEntry{}
	for from, siblings := range categories {
		siblingIDs := maps.Keys(siblings)
		sort.Strings(siblingIDs)

		entries := make([]rtm.TransferEntry, 0, len(siblingIDs))
		for _, siblingID := range siblingIDs {
			entries = append(entries, rtm.TransferEntry{SiblingID: siblingID, Category: siblings[siblingID]})
		}
		index[from] = entries
	}

	log.Info().Int("stops", len(index)).Msg("Built transfer index")

	return index
}

// geographicPairs emits a symmetric pair for every two stops within the
// pairing threshold. Quadratic in stop count, which is acceptable at
// the working scale; the outer loop is sharded across workers since
// every pair check is independent.
func geographicPairs(stops map[string]*rtm.Stop) []transferPair {
	stopIDs := maps.Keys(stops)
	sort.Strings(stopIDs)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	p := pool.NewWithResults[[]transferPair]().WithMaxGoroutines(workers)

	shardSize := (len(stopIDs) + workers - 1) / workers
	for start := 0; start < len(stopIDs); start += shardSize {
		end := start + shardSize
		if end > len(stopIDs) {
			end = len(stopIDs)
		}
		shard := stopIDs[start:end]
		offset := start

		p.Go(func() []transferPair {
			var pairs []transferPair

			for shardIndex, stopA := range shard {
				a := stops[stopA]
				if a.Latitude == 0 && a.Longitude == 0 {
					continue
				}

				for _, stopB := range stopIDs[offset+shardIndex+1:] {
					b := stops[stopB]
					if b.Latitude == 0 && b.Longitude == 0 {
						continue
					}

					if util.HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude) <= geoPairingThresholdMetres {
						pairs = append(pairs, transferPair{
							From:     stopA,
							To:       stopB,
							Category: rtm.CategoryForPair(stopA, stopB),
						})
					}
				}
			}

			return pairs
		})
	}

	var pairs []transferPair
	for _, shardPairs := range p.Wait() {
		pairs = append(pairs, shardPairs...)
	}

	return pairs
}

// linkTrenitaliaByName adds bidirectional links between TI stops and
// SNCF stops sharing a normalized name. The two feeds describe the
// same cross-border stations under independent identifier schemes with
// no shared code, so the name is the only join key available.
func linkTrenitaliaByName(stops map[string]*rtm.Stop, link func(string, string, rtm.TransferCategory)) {
	sncfByName := map[string][]string{}
	for stopID, stop := range stops {
		if rtm.StopOperator(stopID) == "SNCF" {
			name := NormalizeName(stop.Name)
			sncfByName[name] = append(sncfByName[name], stopID)
		}
	}

	for stopID, stop := range stops {
		if rtm.StopOperator(stopID) != "TI" {
			continue
		}

		for _, sncfID := range sncfByName[NormalizeName(stop.Name)] {
			link(stopID, sncfID, rtm.TransferSameStationCrossOperator)
			link(sncfID, stopID, rtm.TransferSameStationCrossOperator)
		}
	}
}

// linkInterCity links stops of different stations that share a
// (city, country) key. These edges are reachable in search but carry
// the long inter-city dwell and never extend the origin set.
func linkInterCity(stations *rtm.StationIndex, link func(string, string, rtm.TransferCategory)) {
	if stations == nil {
		return
	}

	for _, group := range stations.CityGroups {
		for _, stationA := range group.Stations {
			for _, stationB := range group.Stations {
				if stationA == stationB {
					continue
				}

				for _, stopA := range stationA.MemberStopIDs {
					for _, stopB := range stationB.MemberStopIDs {
						link(stopA, stopB, rtm.TransferInterCitySameMetro)
					}
				}
			}
		}
	}
}
