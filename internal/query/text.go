package query

import (
	"strings"
	"unicode"
)

// normalize lowercases s, folds sentence punctuation to spaces and
// collapses runs of whitespace. Dots and commas inside numbers survive so
// amounts like 1,500.50 keep their shape.
func normalize(s string) string {
	rs := []rune(strings.ToLower(s))
	var b strings.Builder
	for i, r := range rs {
		switch r {
		case '.', ',':
			if i > 0 && i < len(rs)-1 && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]) {
				b.WriteRune(r)
				continue
			}
			b.WriteRune(' ')
		case '?', '!', ';', '(', ')', '"':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// hasWord reports whether phrase occurs in text on word boundaries. Both
// are expected to be normalized.
func hasWord(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}

// hasAnyWord reports whether any phrase occurs in text on word boundaries.
func hasAnyWord(text string, phrases ...string) bool {
	for _, p := range phrases {
		if hasWord(text, p) {
			return true
		}
	}
	return false
}

// removePhrase deletes every whole-word occurrence of phrase from text.
func removePhrase(text, phrase string) string {
	padded := " " + text + " "
	padded = strings.ReplaceAll(padded, " "+phrase+" ", " ")
	return strings.Join(strings.Fields(padded), " ")
}

// amountAfter reads the number that follows the whole word keyword. Digits
// and commas are collected, spaces and dollar signs are skipped, and the
// scan stops at anything else. Occurrences preceded by "in phase" are
// age phrases, not amounts. ok is false when no occurrence yields digits.
func amountAfter(text, keyword string) (float64, bool) {
	padded := " " + text + " "
	needle := " " + keyword + " "
	from := 0
	for {
		idx := strings.Index(padded[from:], needle)
		if idx < 0 {
			return 0, false
		}
		at := from + idx
		from = at + len(needle) - 1
		if strings.HasSuffix(padded[:at], " in phase") {
			continue
		}
		var digits []byte
	scan:
		for i := at + len(needle) - 1; i < len(padded); i++ {
			c := padded[i]
			switch {
			case c >= '0' && c <= '9':
				digits = append(digits, c)
			case c == ',':
			case c == ' ' || c == '$':
			default:
				break scan
			}
		}
		if len(digits) == 0 {
			continue
		}
		var n float64
		for _, d := range digits {
			n = n*10 + float64(d-'0')
		}
		return n, true
	}
}
