// Package export renders projects for other tools: calendar reminders,
// spreadsheets and client update e-mails.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/risk"
)

const productID = "-//Southwood Project Tracker//EN"

// ErrNoUpcoming is returned when a project has no milestone on or after today.
var ErrNoUpcoming = errors.New("export: no upcoming milestone")

// MilestoneCalendar builds an all-day event for the next upcoming milestone.
func MilestoneCalendar(p project.Project, today civil.Date, now time.Time) (string, error) {
	next, ok := risk.NextUpcoming(p, today)
	if !ok {
		return "", fmt.Errorf("export: calendar for %s: %w", p.ID, ErrNoUpcoming)
	}
	return allDayEvent(
		fmt.Sprintf("%s — %s: %s", p.ID, p.Name, next.Phase),
		fmt.Sprintf("%s • %s", p.Client, p.Location),
		next.Date, now,
	), nil
}

// FollowUpCalendar builds an all-day event on the next follow-up date, or
// on today when the client has never been contacted.
func FollowUpCalendar(p project.Project, today civil.Date, now time.Time) string {
	date, ok := risk.NextFollowUp(p)
	if !ok {
		date = today
	}
	return allDayEvent(
		fmt.Sprintf("%s — %s: Follow-up", p.ID, p.Name),
		strings.TrimSpace(fmt.Sprintf("Every %dd • Contact %s %s", p.Cadence(), p.ContactPerson, p.ContactEmail)),
		date, now,
	)
}

// MilestoneFilename is the download name for MilestoneCalendar output.
func MilestoneFilename(p project.Project, today civil.Date) string {
	if next, ok := risk.NextUpcoming(p, today); ok {
		return fmt.Sprintf("%s-%s.ics", p.ID, next.Phase)
	}
	return p.ID + ".ics"
}

// FollowUpFilename is the download name for FollowUpCalendar output.
func FollowUpFilename(p project.Project) string {
	return p.ID + "-follow-up.ics"
}

func allDayEvent(summary, description string, date civil.Date, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(productID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)

	event := cal.AddEvent(uuid.NewString() + "@southwood")
	event.SetDtStampTime(now.UTC())
	event.SetAllDayStartAt(date.Time())
	event.SetAllDayEndAt(date.AddDays(1).Time())
	event.SetSummary(oneLine(summary))
	event.SetDescription(oneLine(description))
	return cal.Serialize()
}

func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ").Replace(s)
}
