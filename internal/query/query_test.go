package query

import (
	"strings"
	"testing"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/schedule"
)

// proj builds an active Design project whose Design milestone is
// designOffset days from today.
func proj(id string, value float64, designOffset int) project.Project {
	return project.Project{
		ID:          id,
		Name:        "Project " + id,
		Client:      "Client " + id,
		Location:    "Rock Hill, SC",
		Value:       value,
		Phase:       phase.Design,
		Milestones:  schedule.Cascade(phase.Design, today.AddDays(designOffset)),
		PhaseSince:  today,
		Done:        schedule.Milestones{},
		CadenceDays: 14,
		LastContact: today,
	}
}

func ids(ps []project.Project) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return strings.Join(out, ",")
}

func TestApply_Empty(t *testing.T) {
	in := []project.Project{proj("a", 1, 5), proj("b", 2, 5)}
	if got := ids(Apply(in, "   ", today)); got != "a,b" {
		t.Errorf("blank query = %s, want identity", got)
	}
}

func TestApply_Overdue(t *testing.T) {
	x := proj("x", 1, 5)
	x.Milestones[phase.Permitting] = today.AddDays(-1)
	y := proj("y", 1, 5)
	if got := ids(Apply([]project.Project{x, y}, "overdue", today)); got != "x" {
		t.Errorf("overdue = %s, want x", got)
	}
}

func TestApply_OverduePhaseScoped(t *testing.T) {
	x := proj("x", 1, 5)
	x.Milestones[phase.Permitting] = today.AddDays(-1)
	if got := ids(Apply([]project.Project{x}, "overdue in design", today)); got != "" {
		t.Errorf("overdue in design = %s, want none", got)
	}
	if got := ids(Apply([]project.Project{x}, "overdue permitting", today)); got != "x" {
		t.Errorf("overdue permitting = %s, want x", got)
	}
}

func TestApply_ValueBounds(t *testing.T) {
	in := []project.Project{proj("lo", 40000, 5), proj("hi", 60000, 5)}
	if got := ids(Apply(in, "over 50000", today)); got != "hi" {
		t.Errorf("over 50000 = %s, want hi", got)
	}
	if got := ids(Apply(in, "under $50,000", today)); got != "lo" {
		t.Errorf("under 50000 = %s, want lo", got)
	}
	if got := ids(Apply(in, "over 30000 under 50000", today)); got != "lo" {
		t.Errorf("over/under = %s, want lo", got)
	}
}

func TestApply_HighestValue(t *testing.T) {
	in := []project.Project{proj("ten", 10, 5), proj("thirty", 30, 5), proj("twenty", 20, 5)}
	if got := ids(Apply(in, "highest value", today)); got != "thirty,twenty,ten" {
		t.Errorf("highest value = %s", got)
	}
	if ids(in) != "ten,thirty,twenty" {
		t.Error("Apply reordered its input")
	}
}

func TestApply_Completion(t *testing.T) {
	onTime := proj("ontime", 1, -100)
	onTime.CompletedAt = onTime.Milestones[phase.Installing]
	late := proj("late", 1, -100)
	late.CompletedAt = late.Milestones[phase.Installing].AddDays(1)
	active := proj("active", 1, 5)
	in := []project.Project{onTime, late, active}

	tests := []struct {
		q    string
		want string
	}{
		{"completed on time", "ontime"},
		{"completed late", "late"},
		{"completed", "ontime,late"},
		{"not completed", "active"},
		{"active only", "active"},
	}
	for _, tt := range tests {
		if got := ids(Apply(in, tt.q, today)); got != tt.want {
			t.Errorf("%q = %s, want %s", tt.q, got, tt.want)
		}
	}
}

func TestApply_DateWindow(t *testing.T) {
	a := proj("a", 1, 1)  // Design tomorrow
	b := proj("b", 1, 40) // nothing this week
	if got := ids(Apply([]project.Project{a, b}, "due tomorrow", today)); got != "a" {
		t.Errorf("tomorrow = %s, want a", got)
	}
	// Scoped to Estimating: c's Estimating is 4 days out, a's is 8.
	c := proj("c", 1, -3)
	if got := ids(Apply([]project.Project{a, b, c}, "estimating next 7 days", today)); got != "c" {
		t.Errorf("estimating next 7 days = %s, want c", got)
	}
}

func TestApply_Client(t *testing.T) {
	a := proj("a", 1, 5)
	a.Client = "Acme Fabrication, Inc."
	b := proj("b", 1, 5)
	b.Client = "Blue Ridge Builders"
	if got := ids(Apply([]project.Project{a, b}, "client: blue ridge", today)); got != "b" {
		t.Errorf("client = %s, want b", got)
	}
	if got := ids(Apply([]project.Project{a, b}, "client: acme fabrication, inc.", today)); got != "a" {
		t.Errorf("client with punctuation = %s, want a", got)
	}
}

func TestApply_Focus(t *testing.T) {
	overdue := proj("overdue", 1, -2)
	soon := proj("soon", 900000, 3)
	later := proj("later", 1, 20)
	done := proj("done", 1, -2)
	done.CompletedAt = today
	got := ids(Apply([]project.Project{later, soon, done, overdue}, "what should I focus on?", today))
	if got != "overdue,soon" {
		t.Errorf("focus = %s, want overdue,soon", got)
	}
}

func TestApply_Stalled(t *testing.T) {
	fresh := proj("fresh", 1, 5)
	old := proj("old", 1, 5)
	old.PhaseSince = today.AddDays(-15)
	if got := ids(Apply([]project.Project{fresh, old}, "stalled", today)); got != "old" {
		t.Errorf("stalled = %s, want old", got)
	}
	if got := ids(Apply([]project.Project{fresh, old}, "in phase over 10 days", today)); got != "old" {
		t.Errorf("in phase over 10 days = %s, want old", got)
	}
	// The age phrase is not a value bound.
	if got := ids(Apply([]project.Project{fresh, old}, "in phase over 20 days", today)); got != "" {
		t.Errorf("in phase over 20 days = %s, want none", got)
	}
}

func TestApply_FollowUps(t *testing.T) {
	never := proj("never", 1, 5)
	never.LastContact = civil.Date{}
	stale := proj("stale", 1, 5)
	stale.LastContact = today.AddDays(-20)
	fresh := proj("fresh", 1, 5)
	monday := proj("monday", 1, 5)
	monday.LastContact = today.StartOfWeek()
	in := []project.Project{never, stale, fresh, monday}

	tests := []struct {
		q    string
		want string
	}{
		{"follow-ups due", "never,stale"},
		{"overdue follow-ups", "never,stale"},
		{"not contacted in 10 days", "never,stale"},
		{"contacted today", "fresh"},
		{"contacted this week", "fresh,monday"},
	}
	for _, tt := range tests {
		if got := ids(Apply(in, tt.q, today)); got != tt.want {
			t.Errorf("%q = %s, want %s", tt.q, got, tt.want)
		}
	}
}

func TestPipelineOrder(t *testing.T) {
	want := []string{"completion", "value", "phase", "overdue", "date-window", "client", "focus", "stalled", "follow-ups", "highest-value"}
	if len(Pipeline) != len(want) {
		t.Fatalf("len(Pipeline) = %d, want %d", len(Pipeline), len(want))
	}
	for i, r := range Pipeline {
		if r.Name != want[i] {
			t.Errorf("Pipeline[%d] = %s, want %s", i, r.Name, want[i])
		}
	}
}

func TestParse(t *testing.T) {
	q := Parse("Overdue in Permitting or Design over $10,000?", today)
	if !q.Overdue || !q.HasOver || q.Over != 10000 {
		t.Errorf("parse = %+v", q)
	}
	if len(q.Phases) != 2 || q.Phases[0] != phase.Design || q.Phases[1] != phase.Permitting {
		t.Errorf("Phases = %v", q.Phases)
	}
	if q := Parse("overdue follow-ups", today); q.Overdue || !q.FollowUpsDue {
		t.Errorf("overdue follow-ups should be a follow-up intent only: %+v", q)
	}
}
