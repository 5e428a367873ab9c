package search

import (
	"testing"

	"github.com/railhop/railhop/pkg/rtm"
)

func TestExplore(t *testing.T) {
	trips := []testTrip{
		{
			routeID: "SNCF:R1", tripID: "SNCF:T1", serviceID: "SNCF:S1", operator: "SNCF", trainType: "INOUI",
			calls: []rtm.StopTime{
				call("SNCF:O", 25800, 25800), // 07:10
				call("SNCF:A", 30000, 30000),
				call("SNCF:B", 36000, 36000),
			},
		},
		// A faster afternoon service to B
		{
			routeID: "SNCF:R2", tripID: "SNCF:T2", serviceID: "SNCF:S1", operator: "SNCF", trainType: "INOUI",
			calls: []rtm.StopTime{
				call("SNCF:O", 54000, 54000), // 15:00
				call("SNCF:B", 61200, 61200), // 17:00
			},
		},
	}

	snapshot := buildFixture(trips, nil, nil, []string{"2025-01-10"})

	reachable := snapshot.Explore([]string{"SNCF:O"}, "2025-01-10")

	if _, exists := reachable["SNCF:O"]; exists {
		t.Error("origins must not appear in the reachable set")
	}

	journeyA, exists := reachable["SNCF:A"]
	if !exists {
		t.Fatal("A should be reachable")
	}
	if journeyA.Duration != 70 {
		t.Errorf("got duration %d, want 70", journeyA.Duration)
	}

	journeyB, exists := reachable["SNCF:B"]
	if !exists {
		t.Fatal("B should be reachable")
	}

	// The 15:00 direct run beats the morning one on duration
	if journeyB.Duration != 120 {
		t.Errorf("got duration %d, want the faster 120", journeyB.Duration)
	}
	if journeyB.DepartureTime != 54000 {
		t.Errorf("got departure %d, want 54000", journeyB.DepartureTime)
	}
}

func TestDateCache(t *testing.T) {
	trips := []testTrip{
		{
			routeID: "SNCF:R1", tripID: "SNCF:T1", serviceID: "SNCF:S1", operator: "SNCF", trainType: "TER",
			calls: []rtm.StopTime{
				call("SNCF:O", 25200, 25200),
				call("SNCF:D", 28800, 28800),
			},
		},
	}

	snapshot := buildFixture(trips, nil, nil, []string{"2025-01-10"})

	first := snapshot.indexForDate("2025-01-10")
	if len(first["SNCF:O"]) != 1 {
		t.Fatal("active trip missing from date index")
	}

	// Second lookup hits the cache
	if len(snapshot.dateCache) != 1 {
		t.Fatalf("got %d cached entries, want 1", len(snapshot.dateCache))
	}
	snapshot.indexForDate("2025-01-10")
	if len(snapshot.dateCache) != 1 {
		t.Fatal("repeat lookup must not duplicate the entry")
	}

	// A date with no active services filters everything out
	inactive := snapshot.indexForDate("2030-01-01")
	if len(inactive) != 0 {
		t.Error("no services are active on an unknown date")
	}

	// The cache holds at most seven entries, evicting oldest-inserted
	dates := []string{"2030-01-02", "2030-01-03", "2030-01-04", "2030-01-05", "2030-01-06", "2030-01-07"}
	for _, date := range dates {
		snapshot.indexForDate(date)
	}

	if len(snapshot.dateCache) != 7 {
		t.Fatalf("got %d cached entries, want 7", len(snapshot.dateCache))
	}
	if _, exists := snapshot.dateCache["2025-01-10"]; exists {
		t.Error("oldest entry should have been evicted")
	}
	if snapshot.dateOrder[0] != "2030-01-01" {
		t.Errorf("eviction order wrong: %v", snapshot.dateOrder)
	}

	// The unfiltered index is served for dateless queries and is not a
	// cache entry
	if len(snapshot.indexForDate("")["SNCF:O"]) != 1 {
		t.Error("dateless queries use the unfiltered index")
	}
	if len(snapshot.dateCache) != 7 {
		t.Error("dateless queries must not touch the cache")
	}
}

func TestTrenitaliaOffset(t *testing.T) {
	testCases := []struct {
		date string
		want int
	}{
		{"2025-06-15", 7200},
		{"2025-04-01", 7200},
		{"2025-09-30", 7200},
		{"2025-11-15", 3600},
		{"2025-03-31", 3600},
		{"2025-10-01", 3600},
		{"", 3600},
		{"bogus", 3600},
	}

	for _, testCase := range testCases {
		t.Run(testCase.date, func(t *testing.T) {
			if got := trenitaliaOffset(testCase.date); got != testCase.want {
				t.Errorf("got %d, want %d", got, testCase.want)
			}
		})
	}
}
