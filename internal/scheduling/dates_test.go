package scheduling

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate_AcceptedFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-09-03", "2025-09-03"},
		{"09/03/2025", "2025-09-03"},
		{"9/3/2025", "2025-09-03"},
		{"September 3, 2025", "2025-09-03"},
		{"Sep 3, 2025", "2025-09-03"},
		{"3 September 2025", "2025-09-03"},
		{"  2025-09-03  ", "2025-09-03"},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_Rejected(t *testing.T) {
	for _, in := range []string{"", "not a date", "2025-13-01", "03-09-2025", "tomorrow"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseDate(%q): want ErrValidation, got %v", in, err)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00", "09:00"},
		{"09:00:00", "09:00"},
		{"9:30 AM", "09:30"},
		{"2:00 PM", "14:00"},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseClock("25:99"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseClock(25:99): want ErrValidation, got %v", err)
	}
}

func TestAppointmentInstant(t *testing.T) {
	got, err := AppointmentInstant("2025-09-10", "09:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 9, 10, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("instant = %v, want %v", got, want)
	}

	if _, err := AppointmentInstant("2025-09-10", "garbage"); !errors.Is(err, ErrValidation) {
		t.Errorf("want ErrValidation for bad time, got %v", err)
	}
	if _, err := AppointmentInstant("garbage", "09:00"); !errors.Is(err, ErrValidation) {
		t.Errorf("want ErrValidation for bad date, got %v", err)
	}
}
