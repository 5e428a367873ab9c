package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/search"
)

type nopCache struct{}

func (nopCache) Get(string) (string, bool) { return "", false }
func (nopCache) Set(string, string)        {}

func testApp(t *testing.T) (*fiber.App, *search.TimetableSnapshot) {
	t.Helper()

	timetable := rtm.NewTimetable()
	timetable.Stops["SNCF:87686006"] = &rtm.Stop{Name: "Paris Gare de Lyon", Operator: "SNCF"}
	timetable.Stops["SNCF:87723197"] = &rtm.Stop{Name: "Lyon Part-Dieu", Operator: "SNCF"}
	timetable.RoutesInfo["SNCF:R1"] = &rtm.RouteInfo{LongName: "Paris - Lyon", Type: "rail", Operator: "SNCF"}
	timetable.RouteTrips["SNCF:R1"] = []*rtm.Trip{
		{
			TripID:             "SNCF:T1",
			RouteID:            "SNCF:R1",
			ServiceID:          "SNCF:S1",
			Operator:           "SNCF",
			TrainType:          "INOUI",
			FirstDepartureTime: 25200,
			StopTimes: []rtm.StopTime{
				{StopID: "SNCF:87686006", ArrivalTime: 25200, DepartureTime: 25200},
				{StopID: "SNCF:87723197", ArrivalTime: 32400, DepartureTime: 32400},
			},
		},
	}
	timetable.CalendarIndex["2025-01-10"] = []string{"SNCF:S1"}

	stations := &rtm.StationIndex{
		Stations: []*rtm.Station{
			{
				DisplayName:   "Paris Gare de Lyon",
				City:          "Paris",
				Country:       "FR",
				MemberStopIDs: []string{"SNCF:87686006"},
				Operators:     []string{"SNCF"},
			},
			{
				DisplayName:   "Lyon Part-Dieu",
				City:          "Lyon",
				Country:       "FR",
				MemberStopIDs: []string{"SNCF:87723197"},
				Operators:     []string{"SNCF"},
			},
		},
	}
	stations.BuildLookups()

	snapshot := search.NewSnapshot(timetable, stations, nil)

	app := fiber.New()
	group := app.Group("/api")
	PlannerRouter(group, snapshot, nopCache{})
	StopsRouter(group, snapshot)
	MiscRouter(group, snapshot)

	return app, snapshot
}

func TestSearchEndpoint(t *testing.T) {
	app, _ := testApp(t)

	request := httptest.NewRequest("GET", "/api/search?from=SNCF:87686006&to=SNCF:87723197&time=06:00&date=2025-01-10", nil)
	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d", response.StatusCode)
	}

	body, _ := io.ReadAll(response.Body)

	var payload struct {
		Journeys []map[string]interface{} `json:"journeys"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatal(err)
	}

	if len(payload.Journeys) != 1 {
		t.Fatalf("got %d journeys, want 1: %s", len(payload.Journeys), body)
	}
	if payload.Journeys[0]["depTime"].(float64) != 25200 {
		t.Errorf("got depTime %v", payload.Journeys[0]["depTime"])
	}
}

func TestSearchEndpointByStationName(t *testing.T) {
	app, _ := testApp(t)

	request := httptest.NewRequest("GET", "/api/search?from=Paris+Gare+de+Lyon&to=Lyon+Part-Dieu&time=06:00&date=2025-01-10", nil)
	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d", response.StatusCode)
	}
}

func TestSearchEndpointRequiresParameters(t *testing.T) {
	app, _ := testApp(t)

	request := httptest.NewRequest("GET", "/api/search?from=SNCF:87686006", nil)
	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("got status %d, want 400", response.StatusCode)
	}
}

func TestStopsEndpoint(t *testing.T) {
	app, _ := testApp(t)

	request := httptest.NewRequest("GET", "/api/stops?q=lyon", nil)
	response, err := app.Test(request)
	if err != nil {
		t.Fatal(err)
	}

	if response.StatusCode != fiber.StatusOK {
		t.Fatalf("got status %d", response.StatusCode)
	}

	body, _ := io.ReadAll(response.Body)

	var payload struct {
		Stops []stopRecord `json:"stops"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatal(err)
	}

	if len(payload.Stops) == 0 {
		t.Fatal("expected at least one match for lyon")
	}
}

func TestResolveStops(t *testing.T) {
	_, snapshot := testApp(t)

	if got := resolveStops(snapshot, "SNCF:87686006"); len(got) != 1 {
		t.Errorf("stop id resolution failed: %v", got)
	}
	if got := resolveStops(snapshot, "paris gare de lyon"); len(got) != 1 {
		t.Errorf("station name resolution failed: %v", got)
	}
	if got := resolveStops(snapshot, "nowhere at all"); len(got) != 0 {
		t.Errorf("unknown tokens must resolve to nothing: %v", got)
	}
}
