// Day-of-week vocabulary and helpers for the Days field.
//
// Days are stored as a single comma-separated string of full English
// weekday names, matching the persisted layout of both backends. The
// helpers here canonicalize user input ("monday", "MONDAY") to the stored
// form and split/join between the string and slice representations.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Weekdays is the canonical day-token vocabulary, Monday first. Both
// backends store these full names; filter selectors use them too.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var dayTitle = cases.Title(language.English)

// CanonicalDay normalizes s ("friday", " FRIDAY ") to its canonical
// weekday name. The second return value is false when s is not a weekday.
func CanonicalDay(s string) (string, bool) {
	t := dayTitle.String(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Weekdays {
		if t == d {
			return d, true
		}
	}
	return "", false
}

// IsWeekday reports whether s is a canonical weekday name (exact match).
func IsWeekday(s string) bool {
	_, ok := CanonicalDay(s)
	return ok
}

// JoinDays canonicalizes the given tokens and joins them with commas,
// preserving input order and dropping duplicates. It returns false when
// any token is not a weekday.
func JoinDays(days []string) (string, bool) {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		canon, ok := CanonicalDay(d)
		if !ok {
			return "", false
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	return strings.Join(out, ","), true
}

// SplitDays splits a stored Days string into its tokens. Empty input
// yields an empty slice. Tokens are returned as stored; callers that need
// canonical names should have persisted them via JoinDays.
func SplitDays(days string) []string {
	if strings.TrimSpace(days) == "" {
		return []string{}
	}
	parts := strings.Split(days, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
