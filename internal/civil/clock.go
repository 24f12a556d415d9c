package civil

import "time"

// Clock supplies "today". Two calls within the same calendar day agree.
type Clock interface {
	Today() Date
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

// Today returns the current civil date.
func (c SystemClock) Today() Date {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return Of(time.Now().In(loc))
}

// Fixed is a Clock pinned to a single day, used by tests and by the
// --today override on the command line.
type Fixed Date

// Today returns the pinned date.
func (f Fixed) Today() Date { return Date(f) }
