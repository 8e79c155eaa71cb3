package csvstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

var slotHeader = []string{"provider_id", "location", "date", "start_time", "end_time", "is_booked"}

// SlotStore persists the slot calendar in a single CSV file.
type SlotStore struct {
	path string
	mu   sync.Mutex
}

func NewSlotStore(path string) *SlotStore {
	return &SlotStore{path: path}
}

func (s *SlotStore) ListDay(ctx context.Context, provider, date string) ([]scheduling.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return nil, err
	}

	day, err := scheduling.ParseDate(date)
	if err != nil {
		return nil, err
	}
	var out []scheduling.Slot
	for _, slot := range slots {
		if strings.EqualFold(slot.Provider, provider) && slot.Date == day {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *SlotStore) Claim(ctx context.Context, provider, date string, starts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}

	day, err := scheduling.ParseDate(date)
	if err != nil {
		return err
	}

	// Index of this provider/day's rows by canonical start time.
	byStart := make(map[string]int)
	for i, slot := range slots {
		if strings.EqualFold(slot.Provider, provider) && slot.Date == day {
			byStart[slot.Start] = i
		}
	}
	if len(byStart) == 0 {
		return fmt.Errorf("%w: no slots for %s on %s", scheduling.ErrNotFound, provider, day)
	}

	// Validate everything before mutating anything.
	indices := make([]int, 0, len(starts))
	for _, raw := range starts {
		start, err := scheduling.ParseClock(raw)
		if err != nil {
			return err
		}
		i, ok := byStart[start]
		if !ok {
			return fmt.Errorf("%w: slot %s %s %s not in current snapshot", scheduling.ErrConflict, provider, day, start)
		}
		if slots[i].Booked {
			return fmt.Errorf("%w: slot %s %s %s already booked", scheduling.ErrConflict, provider, day, start)
		}
		indices = append(indices, i)
	}

	for _, i := range indices {
		slots[i].Booked = true
	}
	return s.save(slots)
}

func (s *SlotStore) load() ([]scheduling.Slot, error) {
	_, rows, exists, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: slot calendar %s does not exist", scheduling.ErrStorage, s.path)
	}

	slots := make([]scheduling.Slot, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(slotHeader) {
			return nil, fmt.Errorf("%w: malformed slot row %v", scheduling.ErrStorage, row)
		}
		date, err := scheduling.ParseDate(row[2])
		if err != nil {
			return nil, fmt.Errorf("%w: bad slot date %q", scheduling.ErrStorage, row[2])
		}
		start, err := scheduling.ParseClock(row[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad slot start %q", scheduling.ErrStorage, row[3])
		}
		end, err := scheduling.ParseClock(row[4])
		if err != nil {
			return nil, fmt.Errorf("%w: bad slot end %q", scheduling.ErrStorage, row[4])
		}
		booked, err := strconv.ParseBool(row[5])
		if err != nil {
			return nil, fmt.Errorf("%w: bad is_booked %q", scheduling.ErrStorage, row[5])
		}
		slots = append(slots, scheduling.Slot{
			Provider: row[0],
			Location: row[1],
			Date:     date,
			Start:    start,
			End:      end,
			Booked:   booked,
		})
	}
	return slots, nil
}

func (s *SlotStore) save(slots []scheduling.Slot) error {
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, []string{
			slot.Provider,
			slot.Location,
			slot.Date,
			slot.Start,
			slot.End,
			strconv.FormatBool(slot.Booked),
		})
	}
	return writeTable(s.path, slotHeader, rows)
}

// WriteAll replaces the entire calendar. Used by the seeding command;
// booking paths only ever go through Claim.
func (s *SlotStore) WriteAll(ctx context.Context, slots []scheduling.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(slots)
}
