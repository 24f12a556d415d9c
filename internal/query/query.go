// Package query answers free-text questions about a project list. Text is
// parsed into a Query by deterministic keyword and pattern rules, applied
// through an ordered Pipeline of filters, and rendered into a short report.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
)

// Completion selects projects by completion state.
type Completion int

const (
	CompletionAny Completion = iota
	CompletionOnTime
	CompletionLate
	CompletionDone
	CompletionActive
)

// consumedPhrases belong to the follow-up rules and are removed before
// looking for overdue milestones or date windows.
var consumedPhrases = []string{"contacted today", "contacted this week", "overdue follow-ups", "overdue follow ups"}

var (
	inPhaseOverRe   = regexp.MustCompile(`in phase over (\d+)\s*days?`)
	notContactedRe  = regexp.MustCompile(`not contacted in (\d+)\s*days?`)
	followUpPhrases = []string{"follow-ups due", "overdue follow-ups", "follow up due", "follow-up due", "follow ups due", "overdue follow ups"}
	focusPhrases    = []string{"focus", "right away", "urgent"}
	highestPhrases  = []string{"highest value", "top value", "largest", "biggest"}
)

// Query is the structured form of one free-text question.
type Query struct {
	Raw   string
	Text  string
	Today civil.Date

	Completion Completion

	Over, Under       float64
	HasOver, HasUnder bool

	Phases  []phase.Phase
	Overdue bool

	Range    DateRange
	HasRange bool

	Client string

	Focus bool

	Stalled     bool
	InPhaseOver int
	HasAgeLimit bool

	FollowUpsDue      bool
	NotContactedDays  int
	HasNotContacted   bool
	ContactedToday    bool
	ContactedThisWeek bool

	HighestValue bool
}

// Empty reports whether the question carried no text.
func (q Query) Empty() bool { return q.Text == "" }

// Scope returns the phases date and overdue checks apply to: the mentioned
// phases, or all of them.
func (q Query) Scope() []phase.Phase {
	if len(q.Phases) > 0 {
		return q.Phases
	}
	return phase.All
}

// Parse turns free text into a Query. It never fails; unrecognized text
// yields a Query that filters nothing.
func Parse(text string, today civil.Date) Query {
	norm := normalize(text)
	q := Query{Raw: text, Text: norm, Today: today}
	if norm == "" {
		return q
	}

	switch {
	case hasWord(norm, "completed on time"):
		q.Completion = CompletionOnTime
	case hasWord(norm, "completed late"):
		q.Completion = CompletionLate
	case hasAnyWord(norm, "not completed", "active only"):
		q.Completion = CompletionActive
	case hasWord(norm, "completed"):
		q.Completion = CompletionDone
	}

	q.Over, q.HasOver = amountAfter(norm, "over")
	q.Under, q.HasUnder = amountAfter(norm, "under")

	for _, ph := range phase.All {
		if hasWord(norm, ph.Lower()) {
			q.Phases = append(q.Phases, ph)
		}
	}

	stripped := norm
	for _, p := range consumedPhrases {
		stripped = removePhrase(stripped, p)
	}
	q.Overdue = hasWord(stripped, "overdue")

	q.Range, q.HasRange = ExtractDateRange(text, today)

	q.Client = clientName(text)

	q.Focus = hasAnyWord(norm, focusPhrases...)

	q.Stalled = hasWord(norm, "stalled")
	if m := inPhaseOverRe.FindStringSubmatch(norm); m != nil {
		q.InPhaseOver, _ = strconv.Atoi(m[1])
		q.HasAgeLimit = true
	}

	q.FollowUpsDue = hasAnyWord(norm, followUpPhrases...)
	if m := notContactedRe.FindStringSubmatch(norm); m != nil {
		q.NotContactedDays, _ = strconv.Atoi(m[1])
		q.HasNotContacted = true
	}
	q.ContactedToday = hasWord(norm, "contacted today")
	q.ContactedThisWeek = hasWord(norm, "contacted this week")

	q.HighestValue = hasAnyWord(norm, highestPhrases...)
	return q
}

// clientName returns up to five words following "client:", lowercased.
func clientName(text string) string {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, "client:")
	if idx < 0 {
		return ""
	}
	words := strings.Fields(lower[idx+len("client:"):])
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.TrimRight(strings.Join(words, " "), "?!.")
}
