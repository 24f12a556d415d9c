// Package phase defines the six ordered project stages and their
// per-stage scheduling constants.
package phase

import "strings"

// Phase is one stage of a project.
type Phase string

const (
	Design        Phase = "Design"
	Estimating    Phase = "Estimating"
	Permitting    Phase = "Permitting"
	Surveying     Phase = "Surveying"
	Manufacturing Phase = "Manufacturing"
	Installing    Phase = "Installing"
)

// All lists the phases in schedule order.
var All = []Phase{Design, Estimating, Permitting, Surveying, Manufacturing, Installing}

// offsets is the typical day spacing of each phase measured from Design.
var offsets = map[Phase]int{
	Design:        0,
	Estimating:    7,
	Permitting:    21,
	Surveying:     28,
	Manufacturing: 60,
	Installing:    75,
}

// stallThresholds is the number of days a project may sit in a phase
// before it counts as stalled.
var stallThresholds = map[Phase]int{
	Design:        14,
	Estimating:    10,
	Permitting:    21,
	Surveying:     10,
	Manufacturing: 20,
	Installing:    7,
}

// Offset returns p's day offset from Design. Unknown phases return 0.
func Offset(p Phase) int { return offsets[p] }

// DefaultStallThreshold applies to a phase name that is not in All.
const DefaultStallThreshold = 14

// StallThreshold returns the stall threshold for p.
func StallThreshold(p Phase) int {
	if n, ok := stallThresholds[p]; ok {
		return n
	}
	return DefaultStallThreshold
}

// Index returns p's position in All, or -1.
func Index(p Phase) int {
	for i, q := range All {
		if q == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is one of the six phases.
func Valid(p Phase) bool { return Index(p) >= 0 }

// Next returns the phase after p. The last phase has no successor.
func Next(p Phase) (Phase, bool) {
	i := Index(p)
	if i < 0 || i == len(All)-1 {
		return "", false
	}
	return All[i+1], true
}

// Parse resolves a case-insensitive phase name.
func Parse(s string) (Phase, bool) {
	s = strings.TrimSpace(s)
	for _, p := range All {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return "", false
}

// Lower returns the lowercase name used for text matching.
func (p Phase) Lower() string { return strings.ToLower(string(p)) }
