package reconcile

import (
	"testing"

	"github.com/railhop/railhop/pkg/rtm"
)

func fixtureStops() map[string]*rtm.Stop {
	return map[string]*rtm.Stop{
		"SNCF:StopPoint:OCETGV INOUI-87686006": {Name: "Paris Gare de Lyon", Latitude: 48.8443, Longitude: 2.3743, Operator: "SNCF"},
		"SNCF:StopPoint:OCETGV INOUI-87723197": {Name: "Lyon Part-Dieu", Latitude: 45.7605, Longitude: 4.8596, Operator: "SNCF"},
		"SNCF:StopPoint:OCETrain TER-87723197": {Name: "Lyon Part-Dieu", Latitude: 45.7605, Longitude: 4.8596, Operator: "SNCF"},
		"TI:S01700":                            {Name: "Lyon Part Dieu", Latitude: 45.7605, Longitude: 4.8596, Operator: "TI"},
		"ES:lyon_part_dieu_1":                  {Name: "Lyon Part-Dieu", Latitude: 45.7606, Longitude: 4.8597, Operator: "ES"},
		"SNCF:StopPoint:OCETGV INOUI-87722025": {Name: "Lyon Perrache", Latitude: 45.7486, Longitude: 4.8260, Operator: "SNCF"},
	}
}

func fixtureManifest() []ManifestStation {
	return []ManifestStation{
		{
			UIC:     "87686006",
			Name:    "Paris Gare de Lyon",
			City:    "Paris",
			Country: "FR",
			StopIDs: []string{"SNCF:StopPoint:OCETGV INOUI-87686006"},
		},
		{
			UIC:     "87723197",
			Name:    "Lyon Part-Dieu",
			City:    "Lyon",
			Country: "FR",
			StopIDs: []string{
				"SNCF:StopPoint:OCETGV INOUI-87723197",
				"SNCF:StopPoint:OCETrain TER-87723197",
				"TI:S01700",
			},
		},
		{
			UIC:     "87722025",
			Name:    "Lyon Perrache",
			City:    "Lyon",
			Country: "FR",
			StopIDs: []string{"SNCF:StopPoint:OCETGV INOUI-87722025"},
		},
	}
}

func TestBuildStationIndex(t *testing.T) {
	stops := fixtureStops()
	manifest := fixtureManifest()

	// The feed's transfer table vouches for the Eurostar platform
	whitelist := [][2]string{
		{"ES:lyon_part_dieu_1", "SNCF:StopPoint:OCETGV INOUI-87723197"},
	}

	index := BuildStationIndex(stops, manifest, whitelist, nil)

	partDieu := index.StationByStop["SNCF:StopPoint:OCETGV INOUI-87723197"]
	if partDieu == nil {
		t.Fatal("Part-Dieu station missing")
	}

	if index.StationByStop["TI:S01700"] != partDieu {
		t.Error("manifest members must share one station")
	}
	if index.StationByStop["ES:lyon_part_dieu_1"] != partDieu {
		t.Error("whitelisted stop should fold into the manifest station")
	}

	if index.StationByStop["SNCF:StopPoint:OCETGV INOUI-87722025"] == partDieu {
		t.Error("Perrache must stay a separate station")
	}

	// Lyon has two stations, so it forms a city group
	group := index.CityGroups[rtm.CityKey{City: "Lyon", Country: "FR"}]
	if group == nil || len(group.Stations) != 2 {
		t.Fatalf("expected a two-station Lyon city group, got %+v", group)
	}

	// Paris has a single station: no group
	if index.CityGroups[rtm.CityKey{City: "Paris", Country: "FR"}] != nil {
		t.Error("single-station cities must not form a group")
	}

	// Every stop ends up in some station
	for stopID := range stops {
		if index.StationByStop[stopID] == nil {
			t.Errorf("stop %s left unassigned", stopID)
		}
	}
}

func TestBuildStationIndexOrphans(t *testing.T) {
	stops := map[string]*rtm.Stop{
		"SNCB:88123456": {Name: "Liege-Guillemins", Latitude: 50.62, Longitude: 5.56, Operator: "SNCB"},
		"DB:80114483":   {Name: "Mannheim Hbf", Latitude: 49.48, Longitude: 8.47, Operator: "DB"},
		"DB:80114484":   {Name: "Mannheim Hbf", Latitude: 49.48, Longitude: 8.47, Operator: "DB"},
	}

	index := BuildStationIndex(stops, nil, nil, nil)

	if len(index.Stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(index.Stations))
	}

	liege := index.StationByStop["SNCB:88123456"]
	if liege == nil || liege.Country != "BE" {
		t.Errorf("orphan country should come from the UIC prefix, got %+v", liege)
	}

	mannheim := index.StationByStop["DB:80114483"]
	if mannheim == nil || len(mannheim.MemberStopIDs) != 2 {
		t.Errorf("same-name orphans should group, got %+v", mannheim)
	}
	if mannheim.Country != "DE" {
		t.Errorf("got country %q, want DE", mannheim.Country)
	}
}

func TestStationOrdering(t *testing.T) {
	stops := map[string]*rtm.Stop{
		"TI:S99999":  {Name: "Aosta", Operator: "TI"},
		"SNCF:StopPoint:OCETrain TER-87999999": {Name: "Zuydcoote", Operator: "SNCF"},
	}

	index := BuildStationIndex(stops, nil, nil, nil)

	if len(index.Stations) != 2 {
		t.Fatalf("got %d stations", len(index.Stations))
	}

	// SNCF presence outranks TI despite the name ordering
	if index.Stations[0].DisplayName != "Zuydcoote" {
		t.Errorf("operator presence must win the ordering, got %q first", index.Stations[0].DisplayName)
	}
}
