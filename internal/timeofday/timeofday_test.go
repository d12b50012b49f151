package timeofday

import (
	"errors"
	"fmt"
	"testing"
)

func TestToMinutes_Valid(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"00:01": 1,
		"09:30": 570,
		"9:30":  570,
		"9:5":   545,
		"15:00": 900,
		"19:00": 1140,
		"23:59": 1439,
	}
	for in, want := range cases {
		got, err := ToMinutes(in)
		if err != nil {
			t.Fatalf("ToMinutes(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ToMinutes(%q) = %d; want %d", in, got, want)
		}
	}
}

func TestToMinutes_Invalid(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "123:30", "12:345", "12-30", "ab:cd", "12:30:00", "-1:00", "+1:30", " 9:30", "9: 30"} {
		_, err := ToMinutes(in)
		if err == nil {
			t.Fatalf("ToMinutes(%q): expected error", in)
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("ToMinutes(%q): error %v is not a *FormatError", in, err)
		}
	}
}

func TestFromMinutes_ZeroPadded(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		1:    "00:01",
		570:  "09:30",
		900:  "15:00",
		1439: "23:59",
	}
	for in, want := range cases {
		got, err := FromMinutes(in)
		if err != nil {
			t.Fatalf("FromMinutes(%d): %v", in, err)
		}
		if got != want {
			t.Fatalf("FromMinutes(%d) = %q; want %q", in, got, want)
		}
	}
}

func TestFromMinutes_EndOfDaySentinel(t *testing.T) {
	got, err := FromMinutes(EndOfDay)
	if err != nil {
		t.Fatalf("FromMinutes(EndOfDay): %v", err)
	}
	if got != "00:00" {
		t.Fatalf("FromMinutes(EndOfDay) = %q; want %q", got, "00:00")
	}
}

func TestFromMinutes_OutOfRange(t *testing.T) {
	for _, in := range []int{-1, 1441, 100000} {
		if s, err := FromMinutes(in); err == nil {
			t.Fatalf("FromMinutes(%d) = %q; expected error", in, s)
		}
	}
}

func TestRoundTrip_AllValidTimes(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := fmt.Sprintf("%02d:%02d", h, m)
			mins, err := ToMinutes(s)
			if err != nil {
				t.Fatalf("ToMinutes(%q): %v", s, err)
			}
			back, err := FromMinutes(mins)
			if err != nil {
				t.Fatalf("FromMinutes(%d): %v", mins, err)
			}
			if back != s {
				t.Fatalf("round trip %q -> %d -> %q", s, mins, back)
			}
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("15:00") || !Valid("9:30") || Valid("25:00") || Valid("") {
		t.Fatalf("Valid misclassified input")
	}
}

func TestCanonical_ZeroPadsUnpaddedFields(t *testing.T) {
	cases := map[string]string{
		"9:30":  "09:30",
		"9:5":   "09:05",
		"09:30": "09:30",
		"0:0":   "00:00",
		"23:59": "23:59",
	}
	for in, want := range cases {
		got, err := Canonical(in)
		if err != nil {
			t.Fatalf("Canonical(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Canonical(%q) = %q; want %q", in, got, want)
		}
	}
	if _, err := Canonical("24:00"); err == nil {
		t.Fatalf("Canonical(24:00): expected error")
	}
}
