package model

import (
	"fmt"
	"time"
)

// dateLayout is the ISO calendar-day format used by plan and report files.
const dateLayout = "2006-01-02"

// Date is a calendar day without a time component. Orders and reports are
// keyed by Date; it is comparable and safe as a map key, which time.Time
// with its monotonic clock and location fields is not.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses an ISO "YYYY-MM-DD" string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, &ValidationError{
			Kind:   MalformedInput,
			Entity: "date",
			ID:     value,
			Detail: "expected YYYY-MM-DD",
		}
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Time returns the date as UTC midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the ISO form.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	t := d.Time().AddDate(0, 0, 1)
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d falls after other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// MarshalText lets Date round-trip through JSON and YAML as "YYYY-MM-DD".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the ISO form.
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive [Start, End] calendar window.
type DateRange struct {
	Start Date
	End   Date
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	if r.Start.IsZero() || r.End.IsZero() || r.Start.After(r.End) {
		return 0
	}
	return int(r.End.Time().Sub(r.Start.Time())/(24*time.Hour)) + 1
}

// Contains reports whether the date falls inside the range. A zero bound
// leaves that side of the window open.
func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End) {
		return false
	}
	return true
}

// Validate rejects inverted windows.
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return &ValidationError{
			Kind:   EmptyRange,
			Entity: "date_range",
			Detail: fmt.Sprintf("start %s is after end %s", r.Start, r.End),
		}
	}
	return nil
}
