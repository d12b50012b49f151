// Package timeofday converts between 24-hour "HH:MM" strings and minutes
// since midnight. Parsing tolerates unpadded fields ("9:30"), but the
// stores persist only the zero-padded form Canonical produces; because
// that form is fixed-width, lexical comparison of two stored values is
// equivalent to numeric comparison.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
)

// EndOfDay is the sentinel minute value for "midnight at the end of the
// range" (the top of the admin form's range slider). FromMinutes renders
// it as "00:00", textually identical to the start of day; callers that
// care about the distinction must track it as a range endpoint, not parse
// it back.
const EndOfDay = 1440

// FormatError is returned by ToMinutes when the input is not a valid
// "HH:MM" string.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("timeofday: %q is not a valid HH:MM time", e.Input)
}

// ToMinutes parses a "HH:MM" string into minutes since midnight, in
// [0, 1439]. Hours must be in [0, 23] and minutes in [0, 59]; either
// field may be a single digit. Anything else returns a *FormatError.
func ToMinutes(s string) (int, error) {
	h, m, ok := splitHM(s)
	if !ok || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, &FormatError{Input: s}
	}
	return h*60 + m, nil
}

// FromMinutes renders minutes since midnight as a zero-padded "HH:MM"
// string. Valid inputs are [0, 1440]; EndOfDay (1440) renders as "00:00".
// Out-of-range values are reported as a *FormatError so a bad slider
// position cannot silently become a bogus stored time.
func FromMinutes(m int) (string, error) {
	if m < 0 || m > EndOfDay {
		return "", &FormatError{Input: strconv.Itoa(m)}
	}
	if m == EndOfDay {
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

// Valid reports whether s parses as a "HH:MM" time.
func Valid(s string) bool {
	_, err := ToMinutes(s)
	return err == nil
}

// Canonical re-renders a parsable time as its zero-padded "HH:MM" form
// ("9:30" becomes "09:30"), the only form the stores persist.
func Canonical(s string) (string, error) {
	m, err := ToMinutes(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

// splitHM splits "HH:MM" into integer hour and minute parts. It requires
// exactly one colon and both fields to be one- or two-digit integers.
func splitHM(s string) (h, m int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || !hmField(parts[0]) || !hmField(parts[1]) {
		return 0, 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return 0, 0, false
	}
	return h, m, true
}

// hmField reports whether s is one or two ASCII digits. Checking digits
// explicitly keeps strconv.Atoi from accepting signs or spaces.
func hmField(s string) bool {
	if len(s) < 1 || len(s) > 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
