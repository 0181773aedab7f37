package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ClockLayout is the HH:MM:SS layout used for times of day.
const ClockLayout = "15:04:05"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Clock is a wall-clock time of day, independent of date and zone.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock parses an HH:MM:SS time of day.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return Clock{}, fmt.Errorf("parse time of day %q: %w", value, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

// ClockOf returns the time of day of t in its own location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Before reports whether c is strictly earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	return c.seconds() < other.seconds()
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

func (c Clock) seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// ResolveLocation returns the named location, the process local zone for an empty name.
func ResolveLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
