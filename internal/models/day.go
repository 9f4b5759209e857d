// ABOUTME: Day calendar-date type used as the natural key for entries.
// ABOUTME: Marshals as "2006-01-02" in JSON and supports day arithmetic.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DayFormat is the wire and display format for calendar dates.
const DayFormat = "2006-01-02"

// Day is a calendar date without a time-of-day component.
// The zero value is "no date".
type Day struct {
	t time.Time
}

// NewDay builds a Day from year, month, and day of month.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a time to its calendar date.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar date.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a date in "2006-01-02" form.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return DayOf(t), nil
}

// String formats the day as "2006-01-02".
func (d Day) String() string {
	return d.t.Format(DayFormat)
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d falls before o.
func (d Day) Before(o Day) bool {
	return d.t.Before(o.t)
}

// After reports whether d falls after o.
func (d Day) After(o Day) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same calendar date.
func (d Day) Equal(o Day) bool {
	return d.t.Equal(o.t)
}

// AddDays returns the date n days later; negative n goes back.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to o.
// Negative when o is earlier than d.
func (d Day) DaysUntil(o Day) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Time returns the date at midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

// MarshalJSON encodes the day as a "2006-01-02" string.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "2006-01-02" string.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}
