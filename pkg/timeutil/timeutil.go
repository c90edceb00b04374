// Package timeutil converts between a user's local wall-clock time and
// canonical UTC timestamps. Invalid timezone names never surface as errors
// mid-operation; the value is treated as already UTC and the anomaly logged.
package timeutil

import (
	"time"
)

// Logger is the subset of the application logger the converter needs.
type Logger interface {
	Warn(msg string, keysAndValues ...any)
}

type Converter struct {
	log Logger
}

func New(log Logger) *Converter {
	return &Converter{log: log}
}

// location resolves an IANA timezone name, falling back to UTC.
func (c *Converter) location(tzName string) *time.Location {
	if tzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		if c.log != nil {
			c.log.Warn("timezone_conversion_failed", "timezone", tzName, "error", err.Error())
		}
		return time.UTC
	}
	return loc
}

// ToUTC reinterprets t's wall-clock fields as local time in tzName and
// returns the corresponding UTC instant. With an invalid tzName the wall
// clock is treated as already UTC.
func (c *Converter) ToUTC(t time.Time, tzName string) time.Time {
	loc := c.location(tzName)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc).UTC()
}

// ToLocal returns the given UTC instant in the user's timezone.
func (c *Converter) ToLocal(utc time.Time, tzName string) time.Time {
	return utc.In(c.location(tzName))
}

// FormatClock renders a UTC instant as the user's local "HH:MM".
func (c *Converter) FormatClock(utc time.Time, tzName string) string {
	return c.ToLocal(utc, tzName).Format("15:04")
}
