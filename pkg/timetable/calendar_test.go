package timetable

import (
	"testing"

	"github.com/railhop/railhop/pkg/feedreader"
	"github.com/railhop/railhop/pkg/util"
)

func TestExpandCalendars(t *testing.T) {
	calendars := []feedreader.Calendar{
		{
			ServiceID: "SNCF:S1",
			// Monday to Friday
			Weekdays:  [7]bool{true, true, true, true, true, false, false},
			StartDate: "20250106",
			EndDate:   "20250112",
		},
	}

	calendarDates := []feedreader.CalendarDate{
		// Remove Wednesday, add Saturday
		{ServiceID: "SNCF:S1", Date: "20250108", ExceptionType: 2},
		{ServiceID: "SNCF:S1", Date: "20250111", ExceptionType: 1},
		// Exception for a service with no weekly pattern
		{ServiceID: "SNCF:S2", Date: "20250110", ExceptionType: 1},
	}

	index := ExpandCalendars(calendars, calendarDates)

	if !util.ContainsString(index["2025-01-06"], "SNCF:S1") {
		t.Error("Monday within the interval should be active")
	}
	if util.ContainsString(index["2025-01-08"], "SNCF:S1") {
		t.Error("removed exception date should not be active")
	}
	if !util.ContainsString(index["2025-01-11"], "SNCF:S1") {
		t.Error("added exception date should be active")
	}
	if util.ContainsString(index["2025-01-12"], "SNCF:S1") {
		t.Error("Sunday is outside the weekly pattern")
	}
	if util.ContainsString(index["2025-01-13"], "SNCF:S1") {
		t.Error("dates past the validity interval should not be active")
	}
	if !util.ContainsString(index["2025-01-10"], "SNCF:S2") {
		t.Error("exception-only services should appear on their dates")
	}
}

func TestAssignTrainType(t *testing.T) {
	testCases := []struct {
		name  string
		facts TripFacts
		want  string
	}{
		{
			"sncf inoui",
			TripFacts{Operator: "SNCF", FirstStopID: "SNCF:StopPoint:OCETGV INOUI-87686006"},
			"INOUI",
		},
		{
			"sncf ter",
			TripFacts{Operator: "SNCF", FirstStopID: "SNCF:StopPoint:OCETrain TER-87391003"},
			"TER",
		},
		{
			"sncf intercites de nuit",
			TripFacts{Operator: "SNCF", FirstStopID: "SNCF:StopPoint:OCEINTERCITES de nuit-87547000"},
			"IC_NUIT",
		},
		{
			"sncf intercites",
			TripFacts{Operator: "SNCF", FirstStopID: "SNCF:StopPoint:OCEINTERCITES-87547000"},
			"IC",
		},
		{
			"ouigo high speed by trip number",
			TripFacts{Operator: "SNCF", TripID: "SNCF:OUIGO7641", TripNumber: 7641, FirstStopID: "SNCF:StopPoint:OCEOUIGO-87686006"},
			"OUIGO",
		},
		{
			"ouigo classic by trip number",
			TripFacts{Operator: "SNCF", TripID: "SNCF:OUIGO4421", TripNumber: 4421, FirstStopID: "SNCF:StopPoint:OCEOUIGO-87686006"},
			"OUIGO_CLASSIQUE",
		},
		{
			"lyria",
			TripFacts{Operator: "SNCF", FirstStopID: "SNCF:StopPoint:OCELyria-87686006"},
			"LYRIA",
		},
		{
			"trenitalia",
			TripFacts{Operator: "TI", FirstStopID: "TI:S01700"},
			"FRECCIAROSSA",
		},
		{
			"eurostar",
			TripFacts{Operator: "ES", TripID: "ES:9018", FirstStopID: "ES:paris_nord_3"},
			"EUROSTAR",
		},
		{
			"sncb nightjet",
			TripFacts{Operator: "SNCB", RouteShortName: "NJ"},
			"NIGHTJET",
		},
		{
			"sncb ic",
			TripFacts{Operator: "SNCB", RouteShortName: "IC"},
			"IC_SNCB",
		},
		{
			"db ice",
			TripFacts{Operator: "DB", RouteShortName: "ICE"},
			"ICE",
		},
		{
			"db ic",
			TripFacts{Operator: "DB", RouteShortName: "IC"},
			"IC_DB",
		},
		{
			"renfe alvia",
			TripFacts{Operator: "RENFE", RouteShortName: "ALVIA"},
			"ALVIA",
		},
		{
			"renfe default",
			TripFacts{Operator: "RENFE", RouteShortName: ""},
			"AVE",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := AssignTrainType(testCase.facts); got != testCase.want {
				t.Errorf("got %q, want %q", got, testCase.want)
			}
		})
	}
}

func TestExtractTripNumber(t *testing.T) {
	if got := ExtractTripNumber("SNCF:OUIGO7641"); got != 7641 {
		t.Errorf("got %d, want 7641", got)
	}
	if got := ExtractTripNumber("ES:no-number"); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}
