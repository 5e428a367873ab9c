package search

import (
	"strconv"

	"github.com/railhop/railhop/pkg/rtm"
)

// Trenitalia trips carry times in Italian local time but are merged
// into a France-local timeline. The adjustment is applied on every
// read at scan time, never stored back into the timetable.

// trenitaliaOffset returns the seconds to add to a TI time for an ISO
// query date: +7200 in the summer months, +3600 otherwise. Dateless
// queries use the winter offset.
func trenitaliaOffset(date string) int {
	if len(date) < 7 {
		return 3600
	}

	month, err := strconv.Atoi(date[5:7])
	if err != nil {
		return 3600
	}

	if month >= 4 && month <= 9 {
		return 7200
	}

	return 3600
}

// departureAt reads a trip's departure time at a stop position with the
// operator timezone adjustment applied.
func departureAt(trip *rtm.Trip, position int, tiOffset int) int {
	value := trip.StopTimes[position].DepartureTime
	if trip.Operator == "TI" {
		value += tiOffset
	}

	return value
}

// arrivalAt reads a trip's arrival time at a stop position with the
// operator timezone adjustment applied.
func arrivalAt(trip *rtm.Trip, position int, tiOffset int) int {
	value := trip.StopTimes[position].ArrivalTime
	if trip.Operator == "TI" {
		value += tiOffset
	}

	return value
}
