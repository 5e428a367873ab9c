package timetable

import (
	"sort"

	"github.com/railhop/railhop/pkg/feedreader"
	"github.com/railhop/railhop/pkg/util"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

// ExpandCalendars walks every weekly service pattern over its validity
// interval, enumerates concrete dates and applies date-level exceptions
// to produce the per-date active-service index.
func ExpandCalendars(calendars []feedreader.Calendar, calendarDates []feedreader.CalendarDate) map[string][]string {
	activeByDate := map[string]map[string]bool{}

	markActive := func(date string, serviceID string) {
		if activeByDate[date] == nil {
			activeByDate[date] = map[string]bool{}
		}
		activeByDate[date][serviceID] = true
	}

	for _, calendar := range calendars {
		startDate, err := util.ParseFeedDate(calendar.StartDate)
		if err != nil {
			log.Debug().Str("service", calendar.ServiceID).Str("value", calendar.StartDate).Msg("Skipping calendar with malformed start date")
			continue
		}
		endDate, err := util.ParseFeedDate(calendar.EndDate)
		if err != nil {
			log.Debug().Str("service", calendar.ServiceID).Str("value", calendar.EndDate).Msg("Skipping calendar with malformed end date")
			continue
		}

		for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			// time.Weekday is Sunday-first, the weekly table Monday-first
			weekday := (int(date.Weekday()) + 6) % 7

			if calendar.Weekdays[weekday] {
				markActive(util.ISODate(date), calendar.ServiceID)
			}
		}
	}

	for _, exception := range calendarDates {
		date, err := util.ParseFeedDate(exception.Date)
		if err != nil {
			log.Debug().Str("service", exception.ServiceID).Str("value", exception.Date).Msg("Skipping malformed calendar exception")
			continue
		}

		isoDate := util.ISODate(date)

		switch exception.ExceptionType {
		case 1:
			markActive(isoDate, exception.ServiceID)
		case 2:
			if activeByDate[isoDate] != nil {
				delete(activeByDate[isoDate], exception.ServiceID)
			}
		}
	}

	index := map[string][]string{}
	for date, services := range activeByDate {
		if len(services) == 0 {
			continue
		}

		serviceIDs := maps.Keys(services)
		sort.Strings(serviceIDs)
		index[date] = serviceIDs
	}

	return index
}
