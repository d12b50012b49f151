// Package filter implements the day/time filtering core for the map view.
//
// Filtering is a pure function over a snapshot of locations: it never
// mutates its input, composes the two selectors with logical AND, and is
// idempotent (filtering an already-filtered set with the same selectors
// is a no-op). The HTTP layer and view projection both go through Apply
// so there is exactly one definition of "what the user currently sees".
package filter

import (
	"strings"

	"github.com/okchh/go-happyhour-backend/internal/domain"
)

// AllDays is the day selector value that disables day filtering.
const AllDays = "All"

// MatchesDay reports whether loc's Days field matches the day selector.
// An empty selector or AllDays matches everything.
//
// The match is a deliberate substring test against the stored
// comma-separated string, not exact token membership: this mirrors the
// dashboard's original behavior, where a selector that is a prefix of a
// stored token (e.g. "Mon" vs "Monday") also matches. With the full-name
// vocabulary in domain.Weekdays no stored token is a prefix of another,
// so the looseness is harmless in practice.
func MatchesDay(loc domain.Location, day string) bool {
	if day == "" || day == AllDays {
		return true
	}
	return strings.Contains(loc.Days, day)
}

// MatchesTime reports whether the "HH:MM" selector falls inside loc's
// happy-hour window, endpoints inclusive. An empty selector matches
// everything. Comparison is lexical, which is equivalent to numeric
// comparison for the zero-padded fixed-width format.
func MatchesTime(loc domain.Location, at string) bool {
	if at == "" {
		return true
	}
	return loc.StartTime <= at && at <= loc.EndTime
}

// Apply returns the locations matching both selectors, preserving input
// order. The result is always a freshly allocated slice; the input is
// never modified. Apply(Apply(L, d, t), d, t) == Apply(L, d, t).
func Apply(locs []domain.Location, day, at string) []domain.Location {
	out := make([]domain.Location, 0, len(locs))
	for _, loc := range locs {
		if MatchesDay(loc, day) && MatchesTime(loc, at) {
			out = append(out, loc)
		}
	}
	return out
}
