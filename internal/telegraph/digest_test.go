package telegraph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/schedule"
)

// today is a Monday.
var today = civil.New(2025, 6, 16)

func proj(id string, designOffset int) project.Project {
	return project.Project{
		ID:          id,
		Name:        "Project " + id,
		Client:      "Client " + id,
		Location:    "Rock Hill, SC",
		Value:       1000,
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

func digestFixture() []project.Project {
	late := proj("L", -3)
	soon := proj("S", 2)
	stale := proj("T", 30)
	stale.PhaseSince = today.AddDays(-20)
	quiet := proj("Q", 30)
	quiet.LastContact = today.AddDays(-20)
	done := proj("D", -3)
	done.CompletedAt = today.AddDays(-1)
	return []project.Project{late, soon, stale, quiet, done}
}

func TestBuildDigest_Sections(t *testing.T) {
	d := BuildDigest(digestFixture(), today)

	tests := []struct {
		name string
		got  []project.Project
		want string
	}{
		{"Overdue", d.Overdue, "L"},
		{"DueThisWeek", d.DueThisWeek, "S,L"},
		{"Stalled", d.Stalled, "T"},
		{"FollowUps", d.FollowUps, "Q"},
	}
	for _, tt := range tests {
		if got := ids(tt.got); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, got, tt.want)
		}
	}
	if d.Empty() {
		t.Error("Empty() = true, want false")
	}
	if d.Title() != "Southwood Digest — Mon Jun 16" {
		t.Errorf("Title = %q", d.Title())
	}
}

func TestDigest_Events(t *testing.T) {
	events := BuildDigest(digestFixture(), today).Events()
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}

	tests := []struct {
		title string
		body  string
		color string
	}{
		{"Overdue (1)", "• L — Project L — OVERDUE: Design", ColorError},
		{"Due this week (2)", "• S — Project S — Design 6/18/2025 (in 2d)\n• L — Project L — Estimating 6/20/2025 (in 4d)", ColorWarning},
		{"Stalled (1)", "• T — Project T (Design) — Age 20d", ColorWarning},
		{"Follow-ups due (1)", "• Q — Project Q (Client Q) — Follow-up due (6d overdue)", ColorInfo},
	}
	for i, tt := range tests {
		if events[i].Title != tt.title {
			t.Errorf("events[%d].Title = %q, want %q", i, events[i].Title, tt.title)
		}
		if events[i].Body != tt.body {
			t.Errorf("events[%d].Body = %q, want %q", i, events[i].Body, tt.body)
		}
		if events[i].Color != tt.color {
			t.Errorf("events[%d].Color = %q, want %q", i, events[i].Color, tt.color)
		}
	}
}

func TestDigest_Empty(t *testing.T) {
	done := proj("D", -3)
	done.CompletedAt = today

	for _, in := range [][]project.Project{nil, {done}, {proj("F", 30)}} {
		d := BuildDigest(in, today)
		if !d.Empty() {
			t.Errorf("BuildDigest(%s).Empty() = false", ids(in))
		}
		if len(d.Events()) != 0 {
			t.Errorf("BuildDigest(%s) has events", ids(in))
		}
		if d.Text() != "Nothing needs attention today." {
			t.Errorf("Text = %q", d.Text())
		}
	}
}

func TestDigest_CapsLongSections(t *testing.T) {
	var in []project.Project
	for i := 0; i < 12; i++ {
		in = append(in, proj(fmt.Sprintf("P%02d", i), -40))
	}
	events := BuildDigest(in, today).Events()
	lines := strings.Split(events[0].Body, "\n")
	if len(lines) != maxDigestLines+1 {
		t.Fatalf("lines = %d, want %d", len(lines), maxDigestLines+1)
	}
	if lines[len(lines)-1] != "…and 2 more" {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestDigest_Text(t *testing.T) {
	text := BuildDigest(digestFixture(), today).Text()
	for _, want := range []string{"**Southwood Digest — Mon Jun 16**", "**Overdue (1)**", "**Follow-ups due (1)**"} {
		if !strings.Contains(text, want) {
			t.Errorf("Text missing %q:\n%s", want, text)
		}
	}
}
