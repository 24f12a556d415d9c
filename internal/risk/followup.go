package risk

import (
	"fmt"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
)

// NextFollowUp returns lastContact + cadence. ok is false when the client
// has never been contacted.
func NextFollowUp(p project.Project) (civil.Date, bool) {
	if p.LastContact.IsZero() {
		return civil.Date{}, false
	}
	return p.LastContact.AddDays(p.Cadence()), true
}

// FollowUp is the follow-up state of a project.
type FollowUp struct {
	Due            bool       `json:"due"`
	Complete       bool       `json:"complete"`
	NeverContacted bool       `json:"never_contacted"`
	Next           civil.Date `json:"next"`
	DaysOverdue    int        `json:"days_overdue"`
	DaysRemaining  int        `json:"days_remaining"`
	Text           string     `json:"text"`
}

// FollowUpStatus derives whether a client is due for contact today.
func FollowUpStatus(p project.Project, today civil.Date) FollowUp {
	if p.Completed() {
		return FollowUp{Complete: true, Text: "Project complete"}
	}
	next, ok := NextFollowUp(p)
	if !ok {
		return FollowUp{
			Due:            true,
			NeverContacted: true,
			Text:           fmt.Sprintf("No contact yet (every %dd)", p.Cadence()),
		}
	}
	until := civil.DaysBetween(today, next)
	if until <= 0 {
		return FollowUp{
			Due:         true,
			Next:        next,
			DaysOverdue: -until,
			Text:        fmt.Sprintf("Follow-up due (%dd overdue)", -until),
		}
	}
	return FollowUp{
		Next:          next,
		DaysRemaining: until,
		Text:          fmt.Sprintf("Next in %dd", until),
	}
}
