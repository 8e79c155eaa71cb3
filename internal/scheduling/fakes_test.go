package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fixedClock pins "today" so past-date validation is deterministic.
func fixedClock(date string) Clock {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t.Add(12 * time.Hour) }
}

// memSlotRepo is an in-memory SlotRepository with the same all-or-nothing
// claim semantics as the real stores.
type memSlotRepo struct {
	mu    sync.Mutex
	slots []Slot
	reads int
}

func newMemSlotRepo(slots ...Slot) *memSlotRepo {
	return &memSlotRepo{slots: slots}
}

func (r *memSlotRepo) ListDay(ctx context.Context, provider, date string) ([]Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++

	var out []Slot
	for _, s := range r.slots {
		if s.Provider == provider && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSlotRepo) Claim(ctx context.Context, provider, date string, starts []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	indices := make([]int, 0, len(starts))
	for _, start := range starts {
		found := -1
		for i, s := range r.slots {
			if s.Provider == provider && s.Date == date && s.Start == start {
				found = i
				break
			}
		}
		if found < 0 || r.slots[found].Booked {
			return fmt.Errorf("%w: slot %s not available", ErrConflict, start)
		}
		indices = append(indices, found)
	}
	for _, i := range indices {
		r.slots[i].Booked = true
	}
	return nil
}

func (r *memSlotRepo) booked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, s := range r.slots {
		if s.Booked {
			out = append(out, s.Date+" "+s.Start)
		}
	}
	return out
}

type memPatientRepo struct {
	mu   sync.Mutex
	rows map[string]Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{rows: make(map[string]Patient)}
}

func (r *memPatientRepo) Get(ctx context.Context, id PatientIdentity) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: patient", ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *memPatientRepo) Put(ctx context.Context, p Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.Identity().Key()] = p
	return nil
}

type memLedgerRepo struct {
	mu        sync.Mutex
	records   []BookingRecord
	appendErr error
}

func (r *memLedgerRepo) Append(ctx context.Context, rec BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *memLedgerRepo) ListRange(ctx context.Context, from, to string) ([]BookingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []BookingRecord
	for _, rec := range r.records {
		if rec.Date >= from && rec.Date <= to {
			out = append(out, rec)
		}
	}
	return out, nil
}

// captureDelivery records hand-offs for assertions.
type captureDelivery struct {
	mu    sync.Mutex
	plans []ReminderPlan
	forms []FormsRequest
}

func (d *captureDelivery) DeliverPlan(ctx context.Context, plan ReminderPlan, contact Contact) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plans = append(d.plans, plan)
	return nil
}

func (d *captureDelivery) SendForms(ctx context.Context, req FormsRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forms = append(d.forms, req)
	return nil
}

// daySlots builds a free 30-minute grid for one provider/day.
func daySlots(provider, location, date string, starts ...string) []Slot {
	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		t, err := time.Parse(ClockLayout, start)
		if err != nil {
			panic(err)
		}
		slots = append(slots, Slot{
			Provider: provider,
			Location: location,
			Date:     date,
			Start:    start,
			End:      t.Add(BaseSlotMinutes * time.Minute).Format(ClockLayout),
		})
	}
	return slots
}
