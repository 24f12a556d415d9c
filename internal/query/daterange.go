package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/southwood/internal/civil"
)

// DateRange is a half-open window [Start, End) of civil days. A zero bound
// is unbounded on that side.
type DateRange struct {
	Start civil.Date `json:"start"`
	End   civil.Date `json:"end"`
}

// Contains reports whether d falls inside r.
func (r DateRange) Contains(d civil.Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !d.Before(r.End) {
		return false
	}
	return true
}

var months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var (
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	nameDateRe  = regexp.MustCompile(`^([a-z]{3,9})\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s*(\d{4}))?`)
	anyDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|[a-z]{3,9}\s+\d{1,2}(?:,\s*\d{4})?`)
	bareDayRe   = regexp.MustCompile(`^\d{1,2}(?:st|nd|rd|th)?$`)
)

// monthByName resolves a full or abbreviated (3+ letters) month name.
func monthByName(s string) (time.Month, bool) {
	if len(s) < 3 {
		return 0, false
	}
	for i, m := range months {
		if strings.HasPrefix(m, s) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// parseLooseDate reads a calendar date at the start of s: YYYY-MM-DD,
// M/D/YYYY, M/D/YY, M/D, "Month D" or "Month D, YYYY". A missing year is
// the year of today.
func parseLooseDate(s string, today civil.Date) (civil.Date, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return civil.Valid(y, time.Month(mo), d)
	}
	if m := slashDateRe.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		y := today.Year
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
			if len(m[3]) == 2 {
				y += 2000
			}
		}
		return civil.Valid(y, time.Month(mo), d)
	}
	if m := nameDateRe.FindStringSubmatch(s); m != nil {
		mo, ok := monthByName(m[1])
		if !ok {
			return civil.Date{}, false
		}
		d, _ := strconv.Atoi(m[2])
		y := today.Year
		if m[3] != "" {
			y, _ = strconv.Atoi(m[3])
		}
		return civil.Valid(y, mo, d)
	}
	return civil.Date{}, false
}

// ExtractDateRange finds a date window in q. Keywords win over explicit
// phrases, phrases over bare month names, and month names over a date
// token found anywhere in the text. ok is false when nothing matches.
func ExtractDateRange(q string, today civil.Date) (DateRange, bool) {
	raw := strings.ToLower(q)
	for _, phrase := range consumedPhrases {
		raw = strings.ReplaceAll(raw, phrase, " ")
	}
	text := normalize(raw)
	if text == "" {
		return DateRange{}, false
	}

	week := today.StartOfWeek()
	month := today.StartOfMonth()
	switch {
	case hasWord(text, "today"):
		return DateRange{Start: today, End: today.AddDays(1)}, true
	case hasWord(text, "tomorrow"):
		return DateRange{Start: today.AddDays(1), End: today.AddDays(2)}, true
	case hasAnyWord(text, "next 7 days", "next seven days"):
		return DateRange{Start: today, End: today.AddDays(8)}, true
	case hasAnyWord(text, "next 30 days", "next thirty days"):
		return DateRange{Start: today, End: today.AddDays(31)}, true
	case hasWord(text, "this week"):
		return DateRange{Start: week, End: week.AddDays(7)}, true
	case hasWord(text, "next week"):
		return DateRange{Start: week.AddDays(7), End: week.AddDays(14)}, true
	case hasWord(text, "this month"):
		return DateRange{Start: month, End: month.AddMonths(1)}, true
	case hasWord(text, "next month"):
		return DateRange{Start: month.AddMonths(1), End: month.AddMonths(2)}, true
	}

	if d, ok := dateAfter(raw, "due before ", today); ok {
		return DateRange{End: d}, true
	}
	if d, ok := dateAfter(raw, "due by ", today); ok {
		return DateRange{End: d.AddDays(1)}, true
	}
	if d, ok := dateAfter(raw, "due after ", today); ok {
		return DateRange{Start: d.AddDays(1)}, true
	}
	if r, ok := between(raw, today); ok {
		return r, true
	}

	words := strings.Fields(text)
	for i, w := range words {
		for mi, name := range months {
			if w != name {
				continue
			}
			if i+1 < len(words) && bareDayRe.MatchString(words[i+1]) {
				continue
			}
			start := civil.New(today.Year, time.Month(mi+1), 1)
			return DateRange{Start: start, End: start.AddMonths(1)}, true
		}
	}

	for _, tok := range anyDateRe.FindAllString(raw, -1) {
		if d, ok := parseLooseDate(tok, today); ok {
			return DateRange{Start: d, End: d.AddDays(1)}, true
		}
	}
	return DateRange{}, false
}

func dateAfter(raw, key string, today civil.Date) (civil.Date, bool) {
	idx := strings.Index(raw, key)
	if idx < 0 {
		return civil.Date{}, false
	}
	return parseLooseDate(raw[idx+len(key):], today)
}

func between(raw string, today civil.Date) (DateRange, bool) {
	si := strings.Index(raw, "between ")
	if si < 0 {
		return DateRange{}, false
	}
	rest := raw[si+len("between "):]
	ai := strings.Index(rest, " and ")
	if ai < 0 {
		return DateRange{}, false
	}
	a, okA := parseLooseDate(rest[:ai], today)
	b, okB := parseLooseDate(rest[ai+len(" and "):], today)
	if !okA || !okB {
		return DateRange{}, false
	}
	if b.Before(a) {
		a, b = b, a
	}
	return DateRange{Start: a, End: b.AddDays(1)}, true
}
