package telegraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
)

// DigestKind is the notification kind recorded for the morning digest.
const DigestKind = "digest"

// weekDays is the look-ahead window for DueThisWeek, today included.
const weekDays = 7

// maxDigestLines caps each section; the remainder is summarized.
const maxDigestLines = 10

// Digest is the morning summary of active projects that need attention.
// A project may appear in more than one section.
type Digest struct {
	Day         civil.Date
	Overdue     []project.Project
	DueThisWeek []project.Project
	Stalled     []project.Project
	FollowUps   []project.Project
}

// BuildDigest sorts active projects into digest sections for today.
// Overdue and stalled sections rank by priority, due-this-week by date.
func BuildDigest(projects []project.Project, today civil.Date) Digest {
	d := Digest{Day: today}
	horizon := today.AddDays(weekDays - 1)
	for _, p := range projects {
		if p.Completed() {
			continue
		}
		if risk.HasOverdue(p, today) {
			d.Overdue = append(d.Overdue, p)
		}
		if next, ok := risk.NextUpcoming(p, today); ok && !next.Date.After(horizon) {
			d.DueThisWeek = append(d.DueThisWeek, p)
		}
		if risk.IsStalled(p, today) {
			d.Stalled = append(d.Stalled, p)
		}
		if risk.FollowUpStatus(p, today).Due {
			d.FollowUps = append(d.FollowUps, p)
		}
	}

	byPriority := func(ps []project.Project) {
		sort.SliceStable(ps, func(i, j int) bool {
			return risk.PriorityScore(ps[i], today) > risk.PriorityScore(ps[j], today)
		})
	}
	byPriority(d.Overdue)
	byPriority(d.Stalled)
	byPriority(d.FollowUps)
	sort.SliceStable(d.DueThisWeek, func(i, j int) bool {
		a, _ := risk.NextUpcoming(d.DueThisWeek[i], today)
		b, _ := risk.NextUpcoming(d.DueThisWeek[j], today)
		return a.Date.Before(b.Date)
	})
	return d
}

// Empty reports whether no section has anything to report.
func (d Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueThisWeek) == 0 &&
		len(d.Stalled) == 0 && len(d.FollowUps) == 0
}

// Title is the digest headline.
func (d Digest) Title() string {
	return "Southwood Digest — " + d.Day.Time().Format("Mon Jan 2")
}

// Events renders one attachment per non-empty section.
func (d Digest) Events() []FormattedEvent {
	var events []FormattedEvent
	add := func(title, severity string, ps []project.Project, line func(project.Project) string) {
		if len(ps) == 0 {
			return
		}
		var lines []string
		for i, p := range ps {
			if i == maxDigestLines {
				lines = append(lines, fmt.Sprintf("…and %d more", len(ps)-maxDigestLines))
				break
			}
			lines = append(lines, "• "+line(p))
		}
		events = append(events, FormattedEvent{
			Title:    fmt.Sprintf("%s (%d)", title, len(ps)),
			Body:     strings.Join(lines, "\n"),
			Severity: severity,
			Color:    severityColor(severity),
		})
	}

	today := d.Day
	add("Overdue", "error", d.Overdue, func(p project.Project) string {
		return fmt.Sprintf("%s — %s — OVERDUE: %s", p.ID, p.Name, phaseList(risk.OverduePhases(p, today)))
	})
	add("Due this week", "warning", d.DueThisWeek, func(p project.Project) string {
		next, _ := risk.NextUpcoming(p, today)
		return fmt.Sprintf("%s — %s — %s %s (%s)", p.ID, p.Name, next.Phase, query.ShortDate(next.Date), query.RelLabel(next.Date, today))
	})
	add("Stalled", "warning", d.Stalled, func(p project.Project) string {
		age, _ := risk.AgeInPhase(p, today)
		return fmt.Sprintf("%s — %s (%s) — Age %dd", p.ID, p.Name, p.Phase, age)
	})
	add("Follow-ups due", "info", d.FollowUps, func(p project.Project) string {
		return fmt.Sprintf("%s — %s (%s) — %s", p.ID, p.Name, p.Client, risk.FollowUpStatus(p, today).Text)
	})
	return events
}

// Text renders the digest as plain text, one block per section.
func (d Digest) Text() string {
	if d.Empty() {
		return "Nothing needs attention today."
	}
	blocks := []string{"**" + d.Title() + "**"}
	for _, evt := range d.Events() {
		blocks = append(blocks, eventText(evt))
	}
	return strings.Join(blocks, "\n\n")
}
