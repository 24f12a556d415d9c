// Package schedule derives and repairs the six phase due dates of a project.
//
// Every function is pure: inputs are never mutated and each result is a
// fresh map, so callers can hold the previous schedule while computing the
// next one.
package schedule

import (
	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
)

// Milestones maps a phase to its due date. A missing key is an absent date.
type Milestones map[phase.Phase]civil.Date

// Clone returns a copy of m, dropping zero dates.
func (m Milestones) Clone() Milestones {
	out := make(Milestones, len(m))
	for p, d := range m {
		if !d.IsZero() {
			out[p] = d
		}
	}
	return out
}

// Get returns the date for p and whether it is set.
func (m Milestones) Get(p phase.Phase) (civil.Date, bool) {
	d, ok := m[p]
	if !ok || d.IsZero() {
		return civil.Date{}, false
	}
	return d, true
}

// Complete reports whether every phase has a date.
func (m Milestones) Complete() bool {
	for _, p := range phase.All {
		if _, ok := m.Get(p); !ok {
			return false
		}
	}
	return true
}

// Cascade derives every phase date from a single anchor using the offset
// table: date(P) = anchorDate + offset(P) - offset(anchor).
func Cascade(anchor phase.Phase, anchorDate civil.Date) Milestones {
	out := make(Milestones, len(phase.All))
	base := phase.Offset(anchor)
	for _, p := range phase.All {
		out[p] = anchorDate.AddDays(phase.Offset(p) - base)
	}
	return out
}

// Seed returns the schedule for a project created today in phase anchor:
// the anchor lands where it would if Design had started today.
func Seed(anchor phase.Phase, today civil.Date) Milestones {
	return Cascade(anchor, today.AddDays(phase.Offset(anchor)))
}

// EnforceOrder walks phases in order and clamps any date earlier than the
// previous present date forward to that date. Absent dates are skipped.
func EnforceOrder(m Milestones) Milestones {
	out := m.Clone()
	var last civil.Date
	for _, p := range phase.All {
		cur, ok := out.Get(p)
		if !ok {
			continue
		}
		if !last.IsZero() && cur.Before(last) {
			out[p] = last
			cur = last
		}
		last = cur
	}
	return out
}

// Ordered reports whether the present dates of m are non-decreasing in
// phase order.
func Ordered(m Milestones) bool {
	var last civil.Date
	for _, p := range phase.All {
		cur, ok := m.Get(p)
		if !ok {
			continue
		}
		if !last.IsZero() && cur.Before(last) {
			return false
		}
		last = cur
	}
	return true
}

// Reanchor rebuilds the schedule when a project advances into next. The
// anchor is the existing Installing date if set, then the existing date of
// next, then today + offset(next).
func Reanchor(m Milestones, next phase.Phase, today civil.Date) Milestones {
	var out Milestones
	if d, ok := m.Get(phase.Installing); ok {
		out = Cascade(phase.Installing, d)
	} else if d, ok := m.Get(next); ok {
		out = Cascade(next, d)
	} else {
		out = Cascade(next, today.AddDays(phase.Offset(next)))
	}
	return EnforceOrder(out)
}
