// Package project defines the tracked project entity and the whole-object
// mutations applied to it. Every mutation returns a new Project; inputs are
// never modified.
package project

import (
	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/schedule"
)

// Defaults applied at creation.
const (
	DefaultCadenceDays = 14
	DefaultLocation    = "Rock Hill, SC"
	DefaultIDPrefix    = "SW"
)

// Project is a tracked fabrication/installation job.
type Project struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Client        string              `json:"client"`
	Location      string              `json:"location"`
	Value         float64             `json:"value"`
	Phase         phase.Phase         `json:"phase"`
	Milestones    schedule.Milestones `json:"milestones"`
	PhaseSince    civil.Date          `json:"phaseSince"`
	Done          schedule.Milestones `json:"done"`
	CompletedAt   civil.Date          `json:"completedAt"`
	LastContact   civil.Date          `json:"lastContact"`
	CadenceDays   int                 `json:"cadenceDays"`
	ContactPerson string              `json:"contactPerson"`
	ContactEmail  string              `json:"contactEmail"`
}

// Completed reports whether the project as a whole is finished.
func (p Project) Completed() bool { return !p.CompletedAt.IsZero() }

// Cadence returns the follow-up cadence, falling back to the default for
// unset or invalid values.
func (p Project) Cadence() int {
	if p.CadenceDays < 1 {
		return DefaultCadenceDays
	}
	return p.CadenceDays
}

// Clone deep-copies p.
func (p Project) Clone() Project {
	out := p
	out.Milestones = p.Milestones.Clone()
	out.Done = p.Done.Clone()
	return out
}

// CompletePhase finishes the current phase on today. The outgoing phase is
// stamped done. Finishing Installing completes the project; any other phase
// advances to the next one and re-anchors the schedule.
func CompletePhase(p Project, today civil.Date) Project {
	out := p.Clone()
	out.Done[out.Phase] = today
	next, ok := phase.Next(out.Phase)
	if !ok {
		out.Phase = phase.Installing
		out.CompletedAt = today
		return out
	}
	out.Milestones = schedule.Reanchor(out.Milestones, next, today)
	out.Phase = next
	out.PhaseSince = today
	return out
}

// LogContact records a client contact on today.
func LogContact(p Project, today civil.Date) Project {
	out := p.Clone()
	out.LastContact = today
	return out
}

// SetValue parses raw and replaces the project value.
func SetValue(p Project, raw string) (Project, error) {
	v, err := ParseValue(raw)
	if err != nil {
		return p, err
	}
	out := p.Clone()
	out.Value = v
	return out, nil
}

// SetCadence replaces the follow-up cadence.
func SetCadence(p Project, days int) (Project, error) {
	if days < 1 {
		return p, &ValidationError{Field: "cadenceDays", Message: "Cadence must be at least 1 day."}
	}
	out := p.Clone()
	out.CadenceDays = days
	return out, nil
}

// MarkDone stamps phase ph as finished on date. Marking Installing done
// completes the project on that date.
func MarkDone(p Project, ph phase.Phase, date civil.Date) Project {
	out := p.Clone()
	if date.IsZero() || !phase.Valid(ph) {
		return out
	}
	out.Done[ph] = date
	if ph == phase.Installing {
		out.CompletedAt = date
	}
	return out
}

// UnmarkDone removes the completion stamp for ph. Clearing Installing
// reopens the project.
func UnmarkDone(p Project, ph phase.Phase) Project {
	out := p.Clone()
	delete(out.Done, ph)
	if ph == phase.Installing {
		out.CompletedAt = civil.Date{}
	}
	return out
}

// ApplySchedule replaces the milestones with m as saved from an edit
// session. Order is enforced but touched dates are not re-cascaded.
func ApplySchedule(p Project, m schedule.Milestones) Project {
	out := p.Clone()
	out.Milestones = schedule.EnforceOrder(m)
	return out
}

// EditPhaseDate applies one manual date edit from an edit session. touched
// carries the phases already edited in the session; the updated set is
// returned alongside the project.
func EditPhaseDate(p Project, ph phase.Phase, date civil.Date, opts schedule.EditOpts) (Project, schedule.PhaseSet) {
	out := p.Clone()
	m, touched := schedule.EditPhaseDate(p.Milestones, ph, date, opts)
	out.Milestones = m
	return out, touched
}

// SetInstallDate sets the Installing date, optionally cascading backward.
func SetInstallDate(p Project, date civil.Date, autoCascade bool) Project {
	out := p.Clone()
	out.Milestones = schedule.SetInstallDate(p.Milestones, date, autoCascade)
	return out
}
