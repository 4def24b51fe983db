// Package timeutil converts between the fixed-offset wall clock the user
// types and the absolute timestamps the server stores. The process may run
// in any ambient timezone, so the ambient zone is never consulted.
package timeutil

import (
	"fmt"
	"time"
)

// DefaultOffsetHours is the wall-clock convention of the service's user base (UTC+8).
const DefaultOffsetHours = 8

// WallClockLayout is the minute-granularity input format of the due-date field
const WallClockLayout = "2006-01-02T15:04"

// wallClockSecondsLayout accepts an optional seconds component on input
const wallClockSecondsLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar-day format used by the week view
const DateLayout = "2006-01-02"

// ParseError reports an unparseable wall-clock string
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date/time %q, want YYYY-MM-DDTHH:MM", e.Input)
}

// Zone returns the fixed-offset location for the given UTC offset in hours
func Zone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// ToAbsolute interprets s as a wall-clock time in the fixed offset and
// returns the corresponding absolute instant in UTC. Minutes-only input is
// treated as :00 seconds.
func ToAbsolute(s string, offsetHours int) (time.Time, error) {
	loc := Zone(offsetHours)
	t, err := time.ParseInLocation(WallClockLayout, s, loc)
	if err != nil {
		t, err = time.ParseInLocation(wallClockSecondsLayout, s, loc)
	}
	if err != nil {
		return time.Time{}, &ParseError{Input: s}
	}
	return t.UTC(), nil
}

// ToWallClock renders an absolute instant as a minute-granularity wall-clock
// string in the fixed offset. Inverse of ToAbsolute for minute-granularity input.
func ToWallClock(t time.Time, offsetHours int) string {
	return t.In(Zone(offsetHours)).Format(WallClockLayout)
}

// FormatDue renders a due date for display, seconds included
func FormatDue(t time.Time, offsetHours int) string {
	return t.In(Zone(offsetHours)).Format("2006-01-02 15:04")
}

// DateIn returns the calendar day of t in the fixed offset, as YYYY-MM-DD
func DateIn(t time.Time, offsetHours int) string {
	return t.In(Zone(offsetHours)).Format(DateLayout)
}

var serverTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a server timestamp. The service emits RFC3339 with
// and without a zone suffix; zoneless values are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range serverTimestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
