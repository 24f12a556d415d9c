package query

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/risk"
)

// Report kinds, in the order Answer checks them.
const (
	KindCompleted    = "completed"
	KindFocus        = "focus"
	KindFollowUps    = "follow-ups"
	KindStalled      = "stalled"
	KindHighestValue = "highest-value"
	KindOverdue      = "overdue"
	KindDateWindow   = "date-window"
	KindCount        = "count"
	KindTotal        = "total"
	KindDefault      = "default"
)

// Report is the answer to one question.
type Report struct {
	Kind     string            `json:"kind"`
	Text     string            `json:"summary"`
	Projects []project.Project `json:"projects"`
}

var printer = message.NewPrinter(language.English)

// Currency formats v as whole US dollars with thousands separators.
func Currency(v float64) string {
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

// ShortDate formats d as M/D/YYYY.
func ShortDate(d civil.Date) string {
	return fmt.Sprintf("%d/%d/%d", int(d.Month), d.Day, d.Year)
}

// RelLabel describes d relative to today.
func RelLabel(d, today civil.Date) string {
	switch n := civil.DaysBetween(today, d); {
	case n == 0:
		return "today"
	case n == 1:
		return "tomorrow"
	case n == -1:
		return "yesterday"
	case n < 0:
		return fmt.Sprintf("%dd overdue", -n)
	default:
		return fmt.Sprintf("in %dd", n)
	}
}

// Summarize answers text over projects and returns only the report text.
func Summarize(projects []project.Project, text string, today civil.Date) string {
	return Answer(projects, text, today).Text
}

// Answer filters projects for text and renders a report whose template is
// chosen by the intents found in the question.
func Answer(projects []project.Project, text string, today civil.Date) Report {
	q := Parse(text, today)
	list := Run(q, projects)
	total := 0.0
	for _, p := range list {
		total += p.Value
	}
	wantsList := strings.Contains(q.Text, "which") || strings.Contains(q.Text, "list") || strings.Contains(q.Text, "show")

	r := Report{Projects: list}
	switch {
	case q.Completion == CompletionOnTime || q.Completion == CompletionLate || q.Completion == CompletionDone:
		r.Kind, r.Text = KindCompleted, completedReport(list)
	case q.Focus:
		r.Kind, r.Text = KindFocus, focusReport(list, today)
	case q.FollowUpsDue || q.HasNotContacted:
		r.Kind, r.Text = KindFollowUps, followUpReport(list, today)
	case q.Stalled || q.HasAgeLimit:
		r.Kind, r.Text = KindStalled, stalledReport(list, today)
	case q.HighestValue:
		r.Kind, r.Text = KindHighestValue, highestReport(list, total)
	case q.Overdue && wantsList:
		r.Kind, r.Text = KindOverdue, overdueReport(list, today)
	case q.HasRange:
		r.Kind, r.Text = KindDateWindow, windowReport(list, total, today)
	case strings.Contains(q.Text, "how many"):
		r.Kind = KindCount
		r.Text = fmt.Sprintf("%d project%s match.", len(list), plural(len(list)))
	case strings.Contains(q.Text, "total value") || strings.Contains(q.Text, "total amount") || strings.Contains(q.Text, "pipeline"):
		r.Kind = KindTotal
		r.Text = fmt.Sprintf("Total value for those: %s.", Currency(total))
	default:
		r.Kind, r.Text = KindDefault, defaultReport(list, total, today)
	}
	return r
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func idOf(p project.Project) string {
	if p.ID == "" {
		return "—"
	}
	return p.ID
}

func block(header string, lines []string) string {
	return strings.Join(append([]string{header}, lines...), "\n")
}

func nextBadge(p project.Project, today civil.Date) string {
	next, ok := risk.NextUpcoming(p, today)
	if !ok {
		return "No upcoming"
	}
	return fmt.Sprintf("%s %s (%s)", next.Phase, ShortDate(next.Date), RelLabel(next.Date, today))
}

func joinPhases(ps []phase.Phase, sep string) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, sep)
}

func completedReport(list []project.Project) string {
	var lines []string
	for _, p := range head(list, 15) {
		line := fmt.Sprintf("• %s — %s — completed %s", idOf(p), p.Name, ShortDate(p.CompletedAt))
		if _, ok := p.Milestones.Get(phase.Installing); ok {
			if onTime, _ := risk.CompletedOnTime(p); onTime {
				line += " (On time)"
			} else {
				line += " (Late)"
			}
		}
		lines = append(lines, line)
	}
	return block(fmt.Sprintf("Completed (%d):", len(list)), lines)
}

func focusReport(list []project.Project, today civil.Date) string {
	var lines []string
	for _, p := range head(list, 12) {
		badge := nextBadge(p, today)
		if od := risk.OverduePhases(p, today); len(od) > 0 {
			badge = "OVERDUE: " + joinPhases(od, " / ")
		}
		age := "?"
		if a, ok := risk.AgeInPhase(p, today); ok {
			age = fmt.Sprint(a)
		}
		lines = append(lines, fmt.Sprintf("• %s — %s (%s) — %s — %s — Age %sd", idOf(p), p.Name, p.Client, Currency(p.Value), badge, age))
	}
	return block(fmt.Sprintf("Focus Now (%d):", len(list)), lines)
}

func followUpReport(list []project.Project, today civil.Date) string {
	var due []project.Project
	for _, p := range list {
		if risk.FollowUpStatus(p, today).Due {
			due = append(due, p)
		}
	}
	var lines []string
	for _, p := range head(due, 15) {
		lines = append(lines, fmt.Sprintf("• %s — %s (%s) — %s", idOf(p), p.Name, p.Client, risk.FollowUpStatus(p, today).Text))
	}
	return block(fmt.Sprintf("Follow-ups (%d due, %d matched):", len(due), len(list)), lines)
}

func stalledReport(list []project.Project, today civil.Date) string {
	var lines []string
	for _, p := range head(list, 15) {
		age := "-"
		if a, ok := risk.AgeInPhase(p, today); ok {
			age = fmt.Sprint(a)
		}
		lines = append(lines, fmt.Sprintf("• %s — %s (%s) — Age %sd (limit %dd)", idOf(p), p.Name, p.Phase, age, phase.StallThreshold(p.Phase)))
	}
	return block(fmt.Sprintf("Stalled / aging (%d):", len(list)), lines)
}

func highestReport(list []project.Project, total float64) string {
	top := append([]project.Project(nil), list...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Value > top[j].Value })
	top = head(top, 5)
	var lines []string
	for i, p := range top {
		lines = append(lines, fmt.Sprintf("%d. %s — %s (%s) — %s", i+1, idOf(p), p.Name, p.Client, Currency(p.Value)))
	}
	highest := "Highest: (none)"
	if len(top) > 0 {
		highest = fmt.Sprintf("Highest: %s — %s", idOf(top[0]), Currency(top[0].Value))
	}
	return block(fmt.Sprintf("Top value projects (%d total, %s combined):", len(list), Currency(total)), append(lines, highest))
}

func overdueReport(list []project.Project, today civil.Date) string {
	var lines []string
	for _, p := range list {
		lines = append(lines, fmt.Sprintf("• %s — %s — OVERDUE: %s", idOf(p), p.Name, joinPhases(risk.OverduePhases(p, today), ", ")))
	}
	return block(fmt.Sprintf("%d overdue", len(list)), lines)
}

func windowReport(list []project.Project, total float64, today civil.Date) string {
	var lines []string
	for _, p := range head(list, 20) {
		lines = append(lines, fmt.Sprintf("• %s — %s — %s", idOf(p), p.Name, nextBadge(p, today)))
	}
	return block(fmt.Sprintf("%d match • Total %s", len(list), Currency(total)), lines)
}

func defaultReport(list []project.Project, total float64, today civil.Date) string {
	type upcoming struct {
		p    project.Project
		next risk.Milestone
	}
	var soon []upcoming
	for _, p := range list {
		if next, ok := risk.NextUpcoming(p, today); ok {
			soon = append(soon, upcoming{p, next})
		}
	}
	sort.SliceStable(soon, func(i, j int) bool { return soon[i].next.Date.Before(soon[j].next.Date) })
	var parts []string
	for _, u := range head(soon, 3) {
		parts = append(parts, fmt.Sprintf("%s %s (%s)", idOf(u.p), u.next.Phase, ShortDate(u.next.Date)))
	}
	nextDue := "(none)"
	if len(parts) > 0 {
		nextDue = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%d match • Total %s • Next due: %s", len(list), Currency(total), nextDue)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
