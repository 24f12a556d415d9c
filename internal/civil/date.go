// Package civil provides calendar-date arithmetic on the local civil calendar.
// A Date carries no time of day and no zone, so comparisons and differences
// are integer operations on day numbers and never drift across midnight.
package civil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Layout is the ISO calendar-date layout used for storage and display.
const Layout = "2006-01-02"

// Date is a year/month/day value. The zero Date means "absent".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date, normalizing overflowing months and days the way
// time.Date does (2025-01-32 becomes 2025-02-01).
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the civil date of t in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse parses a strict YYYY-MM-DD string. Empty, malformed or impossible
// dates (2025-02-30) return ok=false rather than an error.
func Parse(s string) (Date, bool) {
	if len(s) != len(Layout) || s[4] != '-' || s[7] != '-' {
		return Date{}, false
	}
	y, err := strconv.Atoi(s[0:4])
	if err != nil {
		return Date{}, false
	}
	m, err := strconv.Atoi(s[5:7])
	if err != nil {
		return Date{}, false
	}
	d, err := strconv.Atoi(s[8:10])
	if err != nil {
		return Date{}, false
	}
	return Valid(y, time.Month(m), d)
}

// Valid returns the Date for y/m/d if it exists on the calendar.
func Valid(y int, m time.Month, d int) (Date, bool) {
	if y <= 0 || m < time.January || m > time.December || d < 1 {
		return Date{}, false
	}
	out := New(y, m, d)
	if out.Year != y || out.Month != m || out.Day != d {
		return Date{}, false
	}
	return out, true
}

// IsZero reports whether d is the absent date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as zero-padded YYYY-MM-DD. The zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC on d. It exists for formatting and for
// libraries that need a time.Time; arithmetic stays on day numbers.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight on d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DayNumber returns the number of days since 1970-01-01.
func (d Date) DayNumber() int {
	return int(d.Time().Unix() / 86400)
}

// FromDayNumber is the inverse of DayNumber.
func FromDayNumber(n int) Date {
	return Of(time.Unix(int64(n)*86400, 0).UTC())
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return FromDayNumber(d.DayNumber() + n)
}

// AddMonths returns the first day of the month n months after d's month.
func (d Date) AddMonths(n int) Date {
	return New(d.Year, d.Month+time.Month(n), 1)
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b Date) int {
	return b.DayNumber() - a.DayNumber()
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	a, b := d.DayNumber(), o.DayNumber()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.DayNumber() < o.DayNumber() }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.DayNumber() > o.DayNumber() }

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// StartOfWeek returns the Monday on or before d.
func (d Date) StartOfWeek() Date {
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// MarshalJSON encodes d as "YYYY-MM-DD", or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a date string. null, "" and malformed strings all
// decode to the absent date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("civil: decode date: %w", err)
	}
	parsed, _ := Parse(s)
	*d = parsed
	return nil
}
