package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseFeedTime parses a schedule time of the form H:MM:SS into seconds
// from local midnight. Hours may exceed 24 for trips crossing midnight.
func ParseFeedTime(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", value)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// ParseFeedDate parses a YYYYMMDD schedule date.
func ParseFeedDate(value string) (time.Time, error) {
	return time.Parse("20060102", strings.TrimSpace(value))
}

// ParseClock parses an HH:MM request parameter into seconds from
// midnight.
func ParseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}

	return parsed.Hour()*3600 + parsed.Minute()*60, nil
}

// FormatClock renders seconds from midnight as HH:MM, wrapping past
// midnight for display.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d", (seconds/3600)%24, (seconds%3600)/60)
}

// ISODate renders a time as the YYYY-MM-DD key used by the calendar
// index.
func ISODate(date time.Time) string {
	return date.Format("2006-01-02")
}
