package scheduling

import (
	"context"
	"fmt"
	"sort"
)

// Calendar is the canonical view over the slot store: the single source of
// truth for booked/free state. All access is read-only except Claim, which
// delegates to the repository's all-or-nothing claim primitive.
type Calendar struct {
	slots SlotRepository
}

func NewCalendar(slots SlotRepository) *Calendar {
	return &Calendar{slots: slots}
}

// Day returns every slot for a provider/date, sorted ascending by start.
func (c *Calendar) Day(ctx context.Context, provider, date string) ([]Slot, error) {
	rows, err := c.slots.ListDay(ctx, provider, date)
	if err != nil {
		return nil, fmt.Errorf("list day %s/%s: %w", provider, date, err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Start < rows[j].Start })
	return rows, nil
}

// FreeSlots returns the free slots for a provider/date, sorted ascending.
// An unknown provider/date yields an empty list, not an error.
func (c *Calendar) FreeSlots(ctx context.Context, provider, date string) ([]Slot, error) {
	rows, err := c.Day(ctx, provider, date)
	if err != nil {
		return nil, err
	}
	free := rows[:0:0]
	for _, s := range rows {
		if !s.Booked {
			free = append(free, s)
		}
	}
	return free, nil
}

// Claim transitions is_booked for the given start times, only if all of
// them are currently free; otherwise no partial mutation occurs. Callers
// must hold the schedule lock for (provider, date).
func (c *Calendar) Claim(ctx context.Context, provider, date string, starts []string) error {
	if len(starts) == 0 {
		return fmt.Errorf("%w: no slots requested", ErrValidation)
	}
	return c.slots.Claim(ctx, provider, date, starts)
}
