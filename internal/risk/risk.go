// Package risk derives read-side status for projects: upcoming and overdue
// milestones, stall detection, risk tiers, priority scores and follow-up
// state. All functions are pure and take "today" explicitly.
package risk

import (
	"math"
	"sort"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
)

// Milestone is a single phase due date.
type Milestone struct {
	Phase phase.Phase `json:"phase"`
	Date  civil.Date  `json:"date"`
}

// NextUpcoming returns the earliest milestone due today or later. Ties go
// to the earlier phase.
func NextUpcoming(p project.Project, today civil.Date) (Milestone, bool) {
	var future []Milestone
	for _, ph := range phase.All {
		d, ok := p.Milestones.Get(ph)
		if !ok || d.Before(today) {
			continue
		}
		future = append(future, Milestone{Phase: ph, Date: d})
	}
	if len(future) == 0 {
		return Milestone{}, false
	}
	sort.SliceStable(future, func(i, j int) bool { return future[i].Date.Before(future[j].Date) })
	return future[0], true
}

// OverduePhases returns every phase whose due date is before today,
// whether or not the phase has been marked done.
func OverduePhases(p project.Project, today civil.Date) []phase.Phase {
	var out []phase.Phase
	for _, ph := range phase.All {
		if d, ok := p.Milestones.Get(ph); ok && d.Before(today) {
			out = append(out, ph)
		}
	}
	return out
}

// OverdueIncomplete returns the overdue phases that are not marked done.
func OverdueIncomplete(p project.Project, today civil.Date) []phase.Phase {
	var out []phase.Phase
	for _, ph := range OverduePhases(p, today) {
		if _, done := p.Done.Get(ph); !done {
			out = append(out, ph)
		}
	}
	return out
}

// LateCompletions returns the phases that were marked done after their due
// date.
func LateCompletions(p project.Project) []phase.Phase {
	var out []phase.Phase
	for _, ph := range phase.All {
		if onTime, known := IsPhaseOnTime(p, ph); known && !onTime {
			out = append(out, ph)
		}
	}
	return out
}

// HasOverdue reports whether any phase is overdue.
func HasOverdue(p project.Project, today civil.Date) bool {
	return len(OverduePhases(p, today)) > 0
}

// IsPhaseOnTime compares the done date of ph with its due date. known is
// false when either date is missing.
func IsPhaseOnTime(p project.Project, ph phase.Phase) (onTime, known bool) {
	done, ok := p.Done.Get(ph)
	if !ok {
		return false, false
	}
	due, ok := p.Milestones.Get(ph)
	if !ok {
		return false, false
	}
	return !done.After(due), true
}

// CompletedOnTime compares completedAt with the Installing due date. known
// is false for active projects; a completed project with no Installing
// date counts as on time.
func CompletedOnTime(p project.Project) (onTime, known bool) {
	if !p.Completed() {
		return false, false
	}
	due, ok := p.Milestones.Get(phase.Installing)
	if !ok {
		return true, true
	}
	return !p.CompletedAt.After(due), true
}

// AgeInPhase returns the days since the project entered its phase, clamped
// at zero. ok is false when phaseSince is unset.
func AgeInPhase(p project.Project, today civil.Date) (int, bool) {
	if p.PhaseSince.IsZero() {
		return 0, false
	}
	age := civil.DaysBetween(p.PhaseSince, today)
	if age < 0 {
		age = 0
	}
	return age, true
}

// IsStalled reports whether an active project has been in its phase longer
// than the phase's threshold. Age equal to the threshold is not stalled.
func IsStalled(p project.Project, today civil.Date) bool {
	if p.Completed() {
		return false
	}
	age, ok := AgeInPhase(p, today)
	if !ok {
		return false
	}
	return age > phase.StallThreshold(p.Phase)
}

// Tier is a coarse risk bucket.
type Tier string

const (
	TierDone    Tier = "Done"
	TierOverdue Tier = "Overdue"
	TierHigh    Tier = "High"
	TierMedium  Tier = "Medium"
	TierLow     Tier = "Low"
	TierNone    Tier = "None"
)

// TierOf buckets p: Done, Overdue, None (nothing upcoming), then High
// within 3 days, Medium within 10 days, else Low.
func TierOf(p project.Project, today civil.Date) Tier {
	if p.Completed() {
		return TierDone
	}
	if HasOverdue(p, today) {
		return TierOverdue
	}
	next, ok := NextUpcoming(p, today)
	if !ok {
		return TierNone
	}
	switch d := civil.DaysBetween(today, next.Date); {
	case d <= 3:
		return TierHigh
	case d <= 10:
		return TierMedium
	}
	return TierLow
}

const (
	completedScore = -1e9
	overdueBase    = 100000
	horizonDays    = 60
	noUpcomingDays = 9999
)

// PriorityScore ranks projects for attention; higher is more urgent.
// Completed projects sort last. Overdue projects outrank all others and
// order by how late their worst phase is. Everything else orders by how
// soon the next milestone is, up to 60 days out. Value/1000 breaks ties.
func PriorityScore(p project.Project, today civil.Date) float64 {
	if p.Completed() {
		return completedScore
	}
	tiebreak := p.Value / 1000
	if od := OverduePhases(p, today); len(od) > 0 {
		worst := math.MaxInt
		for _, ph := range od {
			if d := civil.DaysBetween(today, p.Milestones[ph]); d < worst {
				worst = d
			}
		}
		if worst < 0 {
			worst = -worst
		}
		return overdueBase + float64(worst)*100 + tiebreak
	}
	d := noUpcomingDays
	if next, ok := NextUpcoming(p, today); ok {
		d = civil.DaysBetween(today, next.Date)
	}
	return float64(horizonDays-min(d, horizonDays))*100 + tiebreak
}
