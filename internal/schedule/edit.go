package schedule

import (
	"sort"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
)

// PhaseSet is the set of phases a user has pinned in one edit session.
type PhaseSet map[phase.Phase]bool

// NewPhaseSet builds a set from a list, ignoring unknown phase names.
func NewPhaseSet(ps ...phase.Phase) PhaseSet {
	s := make(PhaseSet, len(ps))
	for _, p := range ps {
		if phase.Valid(p) {
			s[p] = true
		}
	}
	return s
}

// Has reports whether p is in the set.
func (s PhaseSet) Has(p phase.Phase) bool { return s[p] }

// With returns a copy of s that also contains p.
func (s PhaseSet) With(p phase.Phase) PhaseSet {
	out := make(PhaseSet, len(s)+1)
	for q, ok := range s {
		if ok {
			out[q] = true
		}
	}
	out[p] = true
	return out
}

// List returns the members in phase order.
func (s PhaseSet) List() []phase.Phase {
	out := make([]phase.Phase, 0, len(s))
	for q, ok := range s {
		if ok {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return phase.Index(out[i]) < phase.Index(out[j]) })
	return out
}

// EditOpts carries the edit-session signals for a manual date change.
type EditOpts struct {
	AutoCascade bool
	Touched     PhaseSet
}

// EditPhaseDate sets p to date and returns the new schedule and touched set.
//
// With AutoCascade the schedule is recomputed from (p, date) and every
// phase outside the touched set takes its cascaded value before order is
// enforced. Without it only p changes. A zero date clears p and never
// cascades.
func EditPhaseDate(m Milestones, p phase.Phase, date civil.Date, opts EditOpts) (Milestones, PhaseSet) {
	touched := opts.Touched.With(p)
	out := m.Clone()
	if date.IsZero() {
		delete(out, p)
		return out, touched
	}
	out[p] = date
	if !opts.AutoCascade {
		return out, touched
	}
	cascaded := Cascade(p, date)
	for _, q := range phase.All {
		if q == p || opts.Touched.Has(q) {
			continue
		}
		out[q] = cascaded[q]
	}
	return EnforceOrder(out), touched
}

// SetInstallDate sets the Installing date directly. With autoCascade every
// phase is recomputed from Installing; otherwise only Installing changes.
// A zero date leaves m unchanged.
func SetInstallDate(m Milestones, date civil.Date, autoCascade bool) Milestones {
	if date.IsZero() {
		return m.Clone()
	}
	if autoCascade {
		return Cascade(phase.Installing, date)
	}
	out := m.Clone()
	out[phase.Installing] = date
	return out
}
