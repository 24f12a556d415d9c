package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
)

// Email is a drafted client update.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// UpdateEmail drafts a short status update for the project's contact.
func UpdateEmail(p project.Project, today civil.Date) Email {
	greeting := p.ContactPerson
	if greeting == "" {
		greeting = "there"
	}
	lines := []string{
		fmt.Sprintf("Hi %s,", greeting),
		"",
		fmt.Sprintf("Quick update on %s (%s).", p.Name, p.ID),
	}
	if next, ok := risk.NextUpcoming(p, today); ok {
		lines = append(lines, fmt.Sprintf("• Next due: %s on %s", next.Phase, query.ShortDate(next.Date)))
	} else {
		lines = append(lines, "• No upcoming milestones on the schedule")
	}
	if od := risk.OverduePhases(p, today); len(od) > 0 {
		names := make([]string, len(od))
		for i, ph := range od {
			names[i] = string(ph)
		}
		lines = append(lines, "• Overdue phases: "+strings.Join(names, ", "))
	}
	lines = append(lines, "", "Thanks,")

	return Email{
		To:      p.ContactEmail,
		Subject: fmt.Sprintf("Southwood — %s %s update", p.ID, p.Name),
		Body:    strings.Join(lines, "\n"),
	}
}

// MailtoURL encodes e as a mailto: link.
func (e Email) MailtoURL() string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", escape(e.To), escape(e.Subject), escape(e.Body))
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
