// utils/dates.go
package utils

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

func BeginningOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// EndOfDay is the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return now.With(t).EndOfDay()
}

// BeginningOfWeek is Monday 00:00 of t's week in t's location.
func BeginningOfWeek(t time.Time) time.Time {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: t.Location()}
	return cfg.With(t).BeginningOfWeek()
}

// DaysBetween counts calendar days from start to end, ignoring DST shifts.
func DaysBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and the zone-less ISO-8601 forms a browser
// form produces. Zone-less values are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ParseDay accepts a plain date (YYYY-MM-DD) or a full timestamp and returns
// the calendar day it denotes in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	t, err := ParseTimestamp(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return BeginningOfDay(t.In(loc)), nil
}

// ParseRangeBound parses one end of a query range. A bare date widens to the
// start of its day, or to the end of it when upper is set. Timestamps are
// returned as given.
func ParseRangeBound(s string, loc *time.Location, upper bool) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		if upper {
			return EndOfDay(d), nil
		}
		return d, nil
	}
	return ParseTimestamp(s, loc)
}
