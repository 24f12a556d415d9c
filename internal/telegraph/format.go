package telegraph

import (
	"fmt"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
)

// Color constants for event severity.
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// severityColor maps a severity string to a sidebar color.
func severityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "info":
		return ColorInfo
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}

// tierSeverity returns the severity used when a project of tier t is shown.
func tierSeverity(t risk.Tier) string {
	switch t {
	case risk.TierDone:
		return "success"
	case risk.TierOverdue:
		return "error"
	case risk.TierHigh:
		return "warning"
	default:
		return "info"
	}
}

// FormatProject renders one project as an attachment: phase, value, risk
// tier, next milestone and follow-up state.
func FormatProject(p project.Project, today civil.Date) FormattedEvent {
	a := risk.Assess(p, today)
	severity := tierSeverity(a.Tier)

	var body []string
	if p.Location != "" {
		body = append(body, p.Location)
	}
	if a.Next != nil {
		body = append(body, fmt.Sprintf("Next due: %s %s (%s)",
			a.Next.Phase, query.ShortDate(a.Next.Date), query.RelLabel(a.Next.Date, today)))
	} else if !p.Completed() {
		body = append(body, "No upcoming milestones")
	}
	if len(a.Overdue) > 0 {
		body = append(body, "OVERDUE: "+phaseList(a.Overdue))
	}
	if p.Completed() {
		body = append(body, "Completed "+query.ShortDate(p.CompletedAt))
	}

	fields := []Field{
		{Name: "Phase", Value: string(p.Phase), Short: true},
		{Name: "Value", Value: query.Currency(p.Value), Short: true},
		{Name: "Risk", Value: string(a.Tier), Short: true},
	}
	if a.Age != nil {
		age := fmt.Sprintf("%dd", *a.Age)
		if a.Stalled {
			age += " (stalled)"
		}
		fields = append(fields, Field{Name: "Age in phase", Value: age, Short: true})
	}
	fields = append(fields, Field{Name: "Follow-up", Value: a.FollowUp.Text, Short: true})
	if p.ContactPerson != "" {
		fields = append(fields, Field{Name: "Contact", Value: strings.TrimSpace(p.ContactPerson + " " + p.ContactEmail), Short: true})
	}

	return FormattedEvent{
		Title:    fmt.Sprintf("%s — %s (%s)", p.ID, p.Name, p.Client),
		Body:     strings.Join(body, "\n"),
		Severity: severity,
		Color:    severityColor(severity),
		Fields:   fields,
	}
}

// formatKPI renders portfolio KPIs as chat text.
func formatKPI(k risk.KPI) string {
	var b strings.Builder
	b.WriteString("**Southwood Status**\n")
	fmt.Fprintf(&b, "Active: %d | Due soon: %d | At risk: %d\n", k.Active, k.DueSoon, k.AtRisk)
	fmt.Fprintf(&b, "Pipeline: %s | Avg age: %dd\n", query.Currency(k.TotalValue), k.AvgAge)
	fmt.Fprintf(&b, "Stalled: %d | Follow-ups due: %d | Completed: %d", k.Stalled, k.FollowDue, k.Completed)
	return b.String()
}

// eventText flattens an event to plain text for platforms or logs that
// cannot render attachments.
func eventText(evt FormattedEvent) string {
	lines := []string{"**" + evt.Title + "**"}
	if evt.Body != "" {
		lines = append(lines, evt.Body)
	}
	for _, f := range evt.Fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Name, f.Value))
	}
	return strings.Join(lines, "\n")
}

func phaseList(ps []phase.Phase) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
