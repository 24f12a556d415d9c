package risk

import (
	"testing"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/schedule"
)

var today = civil.New(2025, 6, 15)

// scheduled returns an active project whose Design milestone is offset
// days from today.
func scheduled(id string, designOffset int, value float64) project.Project {
	return project.Project{
		ID:          id,
		Phase:       phase.Design,
		Value:       value,
		Milestones:  schedule.Cascade(phase.Design, today.AddDays(designOffset)),
		PhaseSince:  today,
		Done:        schedule.Milestones{},
		CadenceDays: 14,
	}
}

func TestNextUpcoming(t *testing.T) {
	p := scheduled("a", -10, 0)
	next, ok := NextUpcoming(p, today)
	if !ok {
		t.Fatal("expected an upcoming milestone")
	}
	// Design -10, Estimating -3, Permitting +11.
	if next.Phase != phase.Permitting || next.Date != today.AddDays(11) {
		t.Errorf("next = %+v", next)
	}

	p = scheduled("b", 0, 0)
	next, _ = NextUpcoming(p, today)
	if next.Phase != phase.Design {
		t.Errorf("milestone due today should be upcoming, got %s", next.Phase)
	}

	p.Milestones = schedule.Milestones{phase.Surveying: today, phase.Permitting: today}
	next, _ = NextUpcoming(p, today)
	if next.Phase != phase.Permitting {
		t.Errorf("tie should go to the earlier phase, got %s", next.Phase)
	}

	if _, ok := NextUpcoming(scheduled("c", -100, 0), today); ok {
		t.Error("fully past schedule should have no upcoming milestone")
	}
}

func TestOverdueVariants(t *testing.T) {
	p := scheduled("a", -10, 0)
	p.Done[phase.Design] = today.AddDays(-12)     // on time
	p.Done[phase.Estimating] = today.AddDays(-1) // 2 days late

	od := OverduePhases(p, today)
	if len(od) != 2 || od[0] != phase.Design || od[1] != phase.Estimating {
		t.Errorf("OverduePhases = %v", od)
	}
	if got := OverdueIncomplete(p, today); len(got) != 0 {
		t.Errorf("OverdueIncomplete = %v, want none", got)
	}
	if got := LateCompletions(p); len(got) != 1 || got[0] != phase.Estimating {
		t.Errorf("LateCompletions = %v", got)
	}
}

func TestIsPhaseOnTime(t *testing.T) {
	due := civil.New(2025, 3, 1)
	tests := []struct {
		name      string
		done      civil.Date
		due       civil.Date
		wantOK    bool
		wantKnown bool
	}{
		{"equal is on time", due, due, true, true},
		{"one day late", due.AddDays(1), due, false, true},
		{"early", due.AddDays(-3), due, true, true},
		{"no done", civil.Date{}, due, false, false},
		{"no due", due, civil.Date{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := project.Project{Milestones: schedule.Milestones{}, Done: schedule.Milestones{}}
			if !tt.done.IsZero() {
				p.Done[phase.Surveying] = tt.done
			}
			if !tt.due.IsZero() {
				p.Milestones[phase.Surveying] = tt.due
			}
			onTime, known := IsPhaseOnTime(p, phase.Surveying)
			if onTime != tt.wantOK || known != tt.wantKnown {
				t.Errorf("IsPhaseOnTime = (%v, %v), want (%v, %v)", onTime, known, tt.wantOK, tt.wantKnown)
			}
		})
	}
}

func TestAgeAndStall(t *testing.T) {
	p := scheduled("a", 0, 0)
	p.Phase = phase.Estimating

	p.PhaseSince = today.AddDays(-10)
	if age, ok := AgeInPhase(p, today); !ok || age != 10 {
		t.Errorf("AgeInPhase = %d, %v", age, ok)
	}
	if IsStalled(p, today) {
		t.Error("age equal to threshold must not be stalled")
	}

	p.PhaseSince = today.AddDays(-11)
	if !IsStalled(p, today) {
		t.Error("age above threshold should be stalled")
	}

	p.CompletedAt = today
	if IsStalled(p, today) {
		t.Error("completed projects never stall")
	}

	p = scheduled("b", 0, 0)
	p.PhaseSince = today.AddDays(5)
	if age, _ := AgeInPhase(p, today); age != 0 {
		t.Errorf("future phaseSince age = %d, want 0", age)
	}
	p.PhaseSince = civil.Date{}
	if _, ok := AgeInPhase(p, today); ok {
		t.Error("unset phaseSince should have unknown age")
	}
}

func TestTierOf(t *testing.T) {
	done := scheduled("d", 0, 0)
	done.CompletedAt = today

	tests := []struct {
		name string
		p    project.Project
		want Tier
	}{
		{"done", done, TierDone},
		{"overdue", scheduled("o", -1, 0), TierOverdue},
		{"high", scheduled("h", 3, 0), TierHigh},
		{"medium", scheduled("m", 10, 0), TierMedium},
		{"low", scheduled("l", 11, 0), TierLow},
		{"none", project.Project{Milestones: schedule.Milestones{}}, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierOf(tt.p, today); got != tt.want {
				t.Errorf("TierOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPriorityScore_Ordering(t *testing.T) {
	overdueSmall := scheduled("os", -1, 0)
	overdueLarge := scheduled("ol", -5, 0)
	soonRich := scheduled("sr", 2, 5_000_000)
	soonPoor := scheduled("sp", 2, 1_000)
	far := scheduled("far", 90, 0)
	done := scheduled("done", -5, 9_000_000)
	done.CompletedAt = today

	score := func(p project.Project) float64 { return PriorityScore(p, today) }

	if !(score(overdueSmall) > score(soonRich)) {
		t.Error("any overdue project should outrank a non-overdue one regardless of value")
	}
	if !(score(overdueLarge) > score(overdueSmall)) {
		t.Error("larger worst-case lateness should outrank")
	}
	if !(score(soonRich) > score(soonPoor)) {
		t.Error("equal soonness should tie-break on value")
	}
	if !(score(soonPoor) > score(far)) {
		t.Error("sooner should outrank later")
	}
	if score(done) != completedScore {
		t.Errorf("completed score = %v", score(done))
	}
	if got := score(overdueLarge); got != 100000+5*100 {
		t.Errorf("overdue score = %v, want %v", got, 100000+5*100)
	}
	if got := score(project.Project{Value: 2000}); got != 2 {
		t.Errorf("no-upcoming score = %v, want 2", got)
	}
}

func TestFollowUpStatus(t *testing.T) {
	p := scheduled("a", 0, 0)

	fu := FollowUpStatus(p, today)
	if !fu.Due || !fu.NeverContacted || fu.Text != "No contact yet (every 14d)" {
		t.Errorf("never contacted = %+v", fu)
	}

	p.LastContact = today.AddDays(-20)
	fu = FollowUpStatus(p, today)
	if !fu.Due || fu.DaysOverdue != 6 || fu.Text != "Follow-up due (6d overdue)" {
		t.Errorf("overdue = %+v", fu)
	}

	p.LastContact = today.AddDays(-14)
	fu = FollowUpStatus(p, today)
	if !fu.Due || fu.DaysOverdue != 0 {
		t.Errorf("due today = %+v", fu)
	}

	p.LastContact = today.AddDays(-4)
	fu = FollowUpStatus(p, today)
	if fu.Due || fu.DaysRemaining != 10 || fu.Text != "Next in 10d" {
		t.Errorf("not due = %+v", fu)
	}
	if next, ok := NextFollowUp(p); !ok || next != today.AddDays(10) {
		t.Errorf("NextFollowUp = %s, %v", next, ok)
	}

	p.CompletedAt = today
	fu = FollowUpStatus(p, today)
	if fu.Due || !fu.Complete || fu.Text != "Project complete" {
		t.Errorf("complete = %+v", fu)
	}
}

func TestPortfolio(t *testing.T) {
	a := scheduled("a", -1, 1000) // overdue, age 0
	b := scheduled("b", 5, 2000)  // due soon
	b.PhaseSince = today.AddDays(-20)
	b.LastContact = today
	c := scheduled("c", 0, 3000)
	c.CompletedAt = today

	k := Portfolio([]project.Project{a, b, c}, today)
	if k.Active != 2 || k.Completed != 1 {
		t.Errorf("Active/Completed = %d/%d", k.Active, k.Completed)
	}
	if k.TotalValue != 3000 {
		t.Errorf("TotalValue = %v", k.TotalValue)
	}
	if k.AtRisk != 1 || k.DueSoon != 2 || k.Stalled != 1 || k.FollowDue != 1 {
		t.Errorf("kpi = %+v", k)
	}
	if k.AvgAge != 10 {
		t.Errorf("AvgAge = %d, want 10", k.AvgAge)
	}
}

func TestAssess(t *testing.T) {
	p := scheduled("a", 2, 0)
	a := Assess(p, today)
	if a.Tier != TierHigh || a.Next == nil || a.Next.Phase != phase.Design || a.Age == nil || *a.Age != 0 {
		t.Errorf("Assess = %+v", a)
	}
}
