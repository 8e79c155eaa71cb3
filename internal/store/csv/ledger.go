package csvstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

var ledgerHeader = []string{
	"booking_id", "patient_name", "patient_email", "patient_phone",
	"provider", "location", "date", "start_time", "end_time",
	"duration_minutes", "created_at",
}

// LedgerStore persists the append-only booking history in a single CSV
// file, created with headers on the first append.
type LedgerStore struct {
	path string
	mu   sync.Mutex
}

func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

func (s *LedgerStore) Append(ctx context.Context, rec scheduling.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rows, _, err := readTable(s.path)
	if err != nil {
		return err
	}
	rows = append(rows, []string{
		rec.BookingID,
		rec.PatientName,
		rec.PatientEmail,
		rec.PatientPhone,
		rec.Provider,
		rec.Location,
		rec.Date,
		rec.Start,
		rec.End,
		strconv.Itoa(rec.DurationMinutes),
		rec.CreatedAt.Format(time.RFC3339),
	})
	return writeTable(s.path, ledgerHeader, rows)
}

func (s *LedgerStore) ListRange(ctx context.Context, from, to string) ([]scheduling.BookingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, rows, exists, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		// Nothing has ever been appended.
		return nil, nil
	}

	var out []scheduling.BookingRecord
	for _, row := range rows {
		if len(row) != len(ledgerHeader) {
			return nil, fmt.Errorf("%w: malformed ledger row %v", scheduling.ErrStorage, row)
		}
		date, err := scheduling.ParseDate(row[6])
		if err != nil {
			return nil, fmt.Errorf("%w: bad ledger date %q", scheduling.ErrStorage, row[6])
		}
		if date < from || date > to {
			continue
		}
		minutes, err := strconv.Atoi(row[9])
		if err != nil {
			return nil, fmt.Errorf("%w: bad duration %q", scheduling.ErrStorage, row[9])
		}
		created, _ := time.Parse(time.RFC3339, row[10])
		out = append(out, scheduling.BookingRecord{
			BookingID:       row[0],
			PatientName:     row[1],
			PatientEmail:    row[2],
			PatientPhone:    row[3],
			Provider:        row[4],
			Location:        row[5],
			Date:            date,
			Start:           row[7],
			End:             row[8],
			DurationMinutes: minutes,
			CreatedAt:       created,
		})
	}
	return out, nil
}
