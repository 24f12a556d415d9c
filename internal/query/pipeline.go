package query

import (
	"sort"
	"strings"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/risk"
)

// Rule is one step of the query pipeline. Apply runs only when Match
// reports true, and receives the list narrowed by the rules before it.
type Rule struct {
	Name  string
	Match func(q Query) bool
	Apply func(q Query, ps []project.Project) []project.Project
}

// focusWindowDays is how far ahead a milestone counts as needing focus.
const focusWindowDays = 7

// Pipeline is the ordered rule table. Every rule filters except focus and
// highest-value, which reorder.
var Pipeline = []Rule{
	{
		Name:  "completion",
		Match: func(q Query) bool { return q.Completion != CompletionAny },
		Apply: applyCompletion,
	},
	{
		Name:  "value",
		Match: func(q Query) bool { return q.HasOver || q.HasUnder },
		Apply: func(q Query, ps []project.Project) []project.Project {
			return filter(ps, func(p project.Project) bool {
				if q.HasOver && !(p.Value > q.Over) {
					return false
				}
				if q.HasUnder && !(p.Value < q.Under) {
					return false
				}
				return true
			})
		},
	},
	{
		Name:  "phase",
		Match: func(q Query) bool { return len(q.Phases) > 0 },
		Apply: func(q Query, ps []project.Project) []project.Project {
			return filter(ps, func(p project.Project) bool {
				for _, ph := range q.Phases {
					if _, ok := p.Milestones.Get(ph); ok || p.Phase == ph {
						return true
					}
				}
				return false
			})
		},
	},
	{
		Name:  "overdue",
		Match: func(q Query) bool { return q.Overdue },
		Apply: func(q Query, ps []project.Project) []project.Project {
			return filter(ps, func(p project.Project) bool {
				for _, ph := range q.Scope() {
					if d, ok := p.Milestones.Get(ph); ok && d.Before(q.Today) {
						return true
					}
				}
				return false
			})
		},
	},
	{
		Name:  "date-window",
		Match: func(q Query) bool { return q.HasRange },
		Apply: func(q Query, ps []project.Project) []project.Project {
			return filter(ps, func(p project.Project) bool {
				for _, ph := range q.Scope() {
					if d, ok := p.Milestones.Get(ph); ok && q.Range.Contains(d) {
						return true
					}
				}
				return false
			})
		},
	},
	{
		Name:  "client",
		Match: func(q Query) bool { return q.Client != "" },
		Apply: func(q Query, ps []project.Project) []project.Project {
			return filter(ps, func(p project.Project) bool {
				return strings.Contains(strings.ToLower(p.Client), q.Client)
			})
		},
	},
	{
		Name:  "focus",
		Match: func(q Query) bool { return q.Focus },
		Apply: applyFocus,
	},
	{
		Name:  "stalled",
		Match: func(q Query) bool { return q.Stalled || q.HasAgeLimit },
		Apply: func(q Query, ps []project.Project) []project.Project {
			if q.Stalled {
				ps = filter(ps, func(p project.Project) bool { return risk.IsStalled(p, q.Today) })
			}
			if q.HasAgeLimit {
				ps = filter(ps, func(p project.Project) bool {
					age, ok := risk.AgeInPhase(p, q.Today)
					return ok && age > q.InPhaseOver
				})
			}
			return ps
		},
	},
	{
		Name: "follow-ups",
		Match: func(q Query) bool {
			return q.FollowUpsDue || q.HasNotContacted || q.ContactedToday || q.ContactedThisWeek
		},
		Apply: applyFollowUps,
	},
	{
		Name:  "highest-value",
		Match: func(q Query) bool { return q.HighestValue },
		Apply: func(_ Query, ps []project.Project) []project.Project {
			out := append([]project.Project(nil), ps...)
			sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
			return out
		},
	},
}

// Apply filters and orders projects for the question text. Blank text
// returns the input unchanged.
func Apply(projects []project.Project, text string, today civil.Date) []project.Project {
	if strings.TrimSpace(text) == "" {
		return projects
	}
	return Run(Parse(text, today), projects)
}

// Run applies every matching Pipeline rule in order.
func Run(q Query, projects []project.Project) []project.Project {
	if q.Empty() {
		return projects
	}
	list := append([]project.Project(nil), projects...)
	for _, r := range Pipeline {
		if r.Match(q) {
			list = r.Apply(q, list)
		}
	}
	return list
}

func filter(ps []project.Project, keep func(project.Project) bool) []project.Project {
	out := make([]project.Project, 0, len(ps))
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func applyCompletion(q Query, ps []project.Project) []project.Project {
	return filter(ps, func(p project.Project) bool {
		switch q.Completion {
		case CompletionOnTime:
			onTime, known := risk.CompletedOnTime(p)
			return known && onTime
		case CompletionLate:
			onTime, known := risk.CompletedOnTime(p)
			_, hasDue := p.Milestones.Get(phase.Installing)
			return known && hasDue && !onTime
		case CompletionDone:
			return p.Completed()
		case CompletionActive:
			return !p.Completed()
		}
		return true
	})
}

func applyFocus(q Query, ps []project.Project) []project.Project {
	soon := q.Today.AddDays(focusWindowDays)
	out := filter(ps, func(p project.Project) bool {
		if p.Completed() {
			return false
		}
		if risk.HasOverdue(p, q.Today) {
			return true
		}
		next, ok := risk.NextUpcoming(p, q.Today)
		return ok && !next.Date.After(soon)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return risk.PriorityScore(out[i], q.Today) > risk.PriorityScore(out[j], q.Today)
	})
	return out
}

func applyFollowUps(q Query, ps []project.Project) []project.Project {
	if q.FollowUpsDue {
		ps = filter(ps, func(p project.Project) bool {
			return !p.Completed() && risk.FollowUpStatus(p, q.Today).Due
		})
	}
	if q.HasNotContacted {
		ps = filter(ps, func(p project.Project) bool {
			if p.Completed() {
				return false
			}
			return p.LastContact.IsZero() || civil.DaysBetween(p.LastContact, q.Today) >= q.NotContactedDays
		})
	}
	if q.ContactedToday {
		ps = filter(ps, func(p project.Project) bool {
			return !p.LastContact.IsZero() && p.LastContact == q.Today
		})
	}
	if q.ContactedThisWeek {
		monday := q.Today.StartOfWeek()
		ps = filter(ps, func(p project.Project) bool {
			return !p.LastContact.IsZero() && !p.LastContact.Before(monday)
		})
	}
	return ps
}
