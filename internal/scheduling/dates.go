package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// Accepted calendar date layouts, tried in order. The canonical output is
// always DateLayout; anything that fails every layout is a validation
// error rather than being passed through unchanged.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate normalizes a date string into canonical YYYY-MM-DD.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty date", ErrValidation)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized date %q", ErrValidation, raw)
}

// ClockLayout is the canonical time-of-day form used in slot rows.
const ClockLayout = "15:04"

var clockLayouts = []string{
	ClockLayout,
	"15:04:05",
	"3:04 PM",
}

// ParseClock normalizes a time-of-day string into canonical HH:MM.
func ParseClock(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized time %q", ErrValidation, raw)
}

// clockMinutes returns the minute-of-day for a parseable clock string.
func clockMinutes(raw string) (int, error) {
	c, err := ParseClock(raw)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse(ClockLayout, c)
	if err != nil {
		return 0, fmt.Errorf("%w: unrecognized time %q", ErrValidation, raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AppointmentInstant combines a record's date and start time into a single
// local instant. Both fields pass through the normalizing parsers, so
// "09:30:00" and "9:30 AM" style noise is accepted.
func AppointmentInstant(date, start string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClock(start)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, d+" "+c, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid appointment instant %q %q", ErrValidation, date, start)
	}
	return t, nil
}
