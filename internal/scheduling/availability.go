package scheduling

import (
	"context"
	"fmt"
	"time"
)

const (
	// maxMergeSlots caps synthesized appointments at 4 base slots (120m).
	maxMergeSlots = 4

	// mergeTolerance absorbs clock-formatting noise between one slot's end
	// and the next slot's start ("09:30:00" vs "09:30"). Slots further
	// apart than this are never merged.
	mergeTolerance = time.Minute
)

// Availability answers duration-aware queries over the calendar, merging
// adjacent free slots into longer offerings when needed.
type Availability struct {
	calendar *Calendar
	now      Clock
}

func NewAvailability(calendar *Calendar, now Clock) *Availability {
	if now == nil {
		now = time.Now
	}
	return &Availability{calendar: calendar, now: now}
}

// FindOfferings lists what can be booked for durationMinutes with the
// provider on the given date. Dates strictly before today are rejected
// before any slot lookup. A duration within one base slot returns each
// free slot individually; longer durations slide a window of the minimal
// slot count over the sorted free sequence and emit an offering exactly
// when every consecutive pair is adjacent. No offerings is an empty list,
// not an error.
func (a *Availability) FindOfferings(ctx context.Context, provider, date string, durationMinutes int) ([]Offering, error) {
	if provider == "" {
		return nil, fmt.Errorf("%w: provider is required", ErrValidation)
	}
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if day < a.now().Format(DateLayout) {
		return nil, fmt.Errorf("%w: date in the past", ErrValidation)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	needed := (durationMinutes + BaseSlotMinutes - 1) / BaseSlotMinutes
	if needed > maxMergeSlots {
		return nil, fmt.Errorf("%w: duration %dm exceeds the %dm maximum", ErrValidation, durationMinutes, maxMergeSlots*BaseSlotMinutes)
	}

	free, err := a.calendar.FreeSlots(ctx, provider, day)
	if err != nil {
		return nil, err
	}

	var offerings []Offering
	for i := 0; i+needed <= len(free); i++ {
		window := free[i : i+needed]
		if !windowAdjacent(window) {
			continue
		}
		starts := make([]string, 0, needed)
		for _, s := range window {
			starts = append(starts, s.Start)
		}
		offerings = append(offerings, Offering{
			ID:              EncodeOfferingID(provider, day, starts),
			Provider:        provider,
			Location:        window[0].Location,
			Date:            day,
			Start:           window[0].Start,
			End:             window[len(window)-1].End,
			DurationMinutes: needed * BaseSlotMinutes,
			SlotStarts:      starts,
		})
	}
	return offerings, nil
}

// windowAdjacent reports whether each slot ends where the next one starts,
// within mergeTolerance.
func windowAdjacent(window []Slot) bool {
	for i := 0; i+1 < len(window); i++ {
		end, err := clockMinutes(window[i].End)
		if err != nil {
			return false
		}
		next, err := clockMinutes(window[i+1].Start)
		if err != nil {
			return false
		}
		gap := time.Duration(next-end) * time.Minute
		if gap < 0 {
			gap = -gap
		}
		if gap > mergeTolerance {
			return false
		}
	}
	return true
}
