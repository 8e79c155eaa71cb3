package scheduling

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// Ledger is the append-only record of confirmed bookings plus aggregate
// reporting over a date range. It is derived history: booking success is
// authoritative once slots are claimed, so append failures are surfaced
// but never roll a claim back.
type Ledger struct {
	repo LedgerRepository
}

func NewLedger(repo LedgerRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Append adds a record to the ledger. Prior records are never mutated or
// removed.
func (l *Ledger) Append(ctx context.Context, rec BookingRecord) error {
	if rec.BookingID == "" {
		return fmt.Errorf("%w: booking id is required", ErrValidation)
	}
	if err := l.repo.Append(ctx, rec); err != nil {
		return fmt.Errorf("append booking %s: %w", rec.BookingID, err)
	}
	return nil
}

// Report aggregates records whose date falls within [from, to] inclusive,
// grouped by (date, provider): count, total minutes, and mean duration
// rounded to one decimal place. No matches is an empty result.
func (l *Ledger) Report(ctx context.Context, from, to string) ([]ReportRow, error) {
	start, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("%w: range end %s precedes start %s", ErrValidation, end, start)
	}

	records, err := l.repo.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	type key struct{ date, provider string }
	groups := make(map[key]*ReportRow)
	for _, rec := range records {
		k := key{rec.Date, rec.Provider}
		row, ok := groups[k]
		if !ok {
			row = &ReportRow{Date: rec.Date, Provider: rec.Provider}
			groups[k] = row
		}
		row.TotalAppointments++
		row.TotalMinutes += rec.DurationMinutes
	}

	rows := make([]ReportRow, 0, len(groups))
	for _, row := range groups {
		row.AvgDurationMinutes = math.Round(float64(row.TotalMinutes)/float64(row.TotalAppointments)*10) / 10
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Provider < rows[j].Provider
	})
	return rows, nil
}
