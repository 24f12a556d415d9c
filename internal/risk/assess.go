package risk

import (
	"math"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
)

// Assessment is the per-project read model rendered next to a project.
type Assessment struct {
	Tier              Tier          `json:"tier"`
	Score             float64       `json:"score"`
	Age               *int          `json:"age"`
	Stalled           bool          `json:"stalled"`
	Next              *Milestone    `json:"next"`
	Overdue           []phase.Phase `json:"overdue"`
	OverdueIncomplete []phase.Phase `json:"overdue_incomplete"`
	LateCompletions   []phase.Phase `json:"late_completions"`
	FollowUp          FollowUp      `json:"follow_up"`
}

// Assess computes every derived field for p.
func Assess(p project.Project, today civil.Date) Assessment {
	a := Assessment{
		Tier:              TierOf(p, today),
		Score:             PriorityScore(p, today),
		Stalled:           IsStalled(p, today),
		Overdue:           OverduePhases(p, today),
		OverdueIncomplete: OverdueIncomplete(p, today),
		LateCompletions:   LateCompletions(p),
		FollowUp:          FollowUpStatus(p, today),
	}
	if age, ok := AgeInPhase(p, today); ok {
		a.Age = &age
	}
	if next, ok := NextUpcoming(p, today); ok {
		a.Next = &next
	}
	return a
}

// KPI summarizes a portfolio of projects.
type KPI struct {
	Active     int     `json:"active"`
	DueSoon    int     `json:"due_soon"`
	AtRisk     int     `json:"at_risk"`
	TotalValue float64 `json:"total_value"`
	AvgAge     int     `json:"avg_age"`
	Stalled    int     `json:"stalled"`
	FollowDue  int     `json:"follow_ups_due"`
	Completed  int     `json:"completed"`
}

// dueSoonDays is the look-ahead window for DueSoon.
const dueSoonDays = 30

// Portfolio computes dashboard KPIs. All counts except Completed cover
// active projects only.
func Portfolio(projects []project.Project, today civil.Date) KPI {
	var k KPI
	horizon := today.AddDays(dueSoonDays)
	ageSum, ageCount := 0, 0
	for _, p := range projects {
		if p.Completed() {
			k.Completed++
			continue
		}
		k.Active++
		k.TotalValue += p.Value
		for _, ph := range phase.All {
			if d, ok := p.Milestones.Get(ph); ok && !d.Before(today) && !d.After(horizon) {
				k.DueSoon++
				break
			}
		}
		if HasOverdue(p, today) {
			k.AtRisk++
		}
		if age, ok := AgeInPhase(p, today); ok {
			ageSum += age
			ageCount++
		}
		if IsStalled(p, today) {
			k.Stalled++
		}
		if FollowUpStatus(p, today).Due {
			k.FollowDue++
		}
	}
	if ageCount > 0 {
		k.AvgAge = int(math.Round(float64(ageSum) / float64(ageCount)))
	}
	return k
}
