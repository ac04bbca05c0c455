// Package casnum normalizes and validates Chemical Abstracts Service (CAS)
// registry numbers and the free-form concentration strings that accompany
// them on safety data sheets.  All functions are pure and never panic;
// invalid input yields the zero value, never an error that could abort a
// document-level pipeline.
package casnum

import (
	"regexp"
	"strconv"
	"strings"
)

// casPattern matches the canonical CAS layout: one to seven digits, a
// hyphen, two digits, a hyphen, and a single check digit.
var casPattern = regexp.MustCompile(`^\d{1,7}-\d{2}-\d$`)

// percentPattern extracts the leading numeric portion of a concentration
// string such as "12.5%", "<0.1 %", or ">= 60".
var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// Normalize canonicalises raw into a CAS registry number.  It trims
// whitespace, collapses internal spaces around hyphens, and unifies unicode
// dashes to ASCII hyphens.  The second return value reports whether the
// result is a structurally valid CAS number; when false the first value is
// the cleaned-but-unvalidated input so callers can still log it.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("‐", "-", "‑", "-", "‒", "-", "–", "-", "—", "-").Replace(s)
	s = strings.ReplaceAll(s, " - ", "-")
	s = strings.ReplaceAll(s, "- ", "-")
	s = strings.ReplaceAll(s, " -", "-")
	return s, Valid(s)
}

// Valid reports whether s is a structurally valid CAS registry number.  The
// first segment must not carry a leading zero: registry numbers are assigned
// sequentially from 50-00-0 upward, so an all-zero or zero-padded first
// segment (e.g. "000-00-0", a common SDS placeholder for proprietary
// mixtures) is rejected even though it fits the digit layout.
func Valid(s string) bool {
	if !casPattern.MatchString(s) {
		return false
	}
	first := s[:strings.IndexByte(s, '-')]
	if first[0] == '0' {
		return false
	}
	return true
}

// NormalizePercentage parses a free-form concentration string into a
// percentage value in [0, 100].  Range expressions ("10-20%") resolve to
// their midpoint; bounded expressions ("<0.1%", ">60%") resolve to the
// bound itself.  Unparseable input returns (0, false).
func NormalizePercentage(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	// A range like "10-20" or "10 - 20 %" has two numeric captures split by
	// a hyphen that is not a minus sign.
	matches := percentPattern.FindAllString(s, 2)
	if len(matches) == 0 {
		return 0, false
	}

	lo, err := strconv.ParseFloat(matches[0], 64)
	if err != nil {
		return 0, false
	}

	val := lo
	if len(matches) == 2 && strings.Contains(s, "-") {
		hi, err := strconv.ParseFloat(matches[1], 64)
		if err == nil && hi >= lo {
			val = (lo + hi) / 2
		}
	}

	if val < 0 || val > 100 {
		return 0, false
	}
	return val, true
}
