package csvstore

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

func sampleRecord(id, date string) scheduling.BookingRecord {
	return scheduling.BookingRecord{
		BookingID:       id,
		PatientName:     "John Doe",
		Provider:        "Dr. Sharma",
		Location:        "Main Clinic",
		Date:            date,
		Start:           "09:00",
		End:             "09:30",
		DurationMinutes: 30,
		CreatedAt:       time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLedgerStore_AppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointments.csv")
	store := NewLedgerStore(path)

	if err := store.Append(context.Background(), sampleRecord("b-1", "2025-09-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 record", len(rows))
	}
	if rows[0][0] != "booking_id" || rows[0][10] != "created_at" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "b-1" || rows[1][9] != "30" {
		t.Errorf("record row = %v", rows[1])
	}
}

func TestLedgerStore_AppendPreservesHistory(t *testing.T) {
	store := NewLedgerStore(filepath.Join(t.TempDir(), "appointments.csv"))
	ctx := context.Background()

	for _, id := range []string{"b-1", "b-2", "b-3"} {
		if err := store.Append(ctx, sampleRecord(id, "2025-09-10")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.ListRange(ctx, "2025-09-01", "2025-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].BookingID != "b-1" || records[2].BookingID != "b-3" {
		t.Errorf("append order not preserved: %v, %v", records[0].BookingID, records[2].BookingID)
	}
}

func TestLedgerStore_ListRangeFiltersInclusive(t *testing.T) {
	store := NewLedgerStore(filepath.Join(t.TempDir(), "appointments.csv"))
	ctx := context.Background()

	dates := []string{"2025-08-31", "2025-09-01", "2025-09-30", "2025-10-01"}
	for i, d := range dates {
		if err := store.Append(ctx, sampleRecord(string(rune('a'+i)), d)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.ListRange(ctx, "2025-09-01", "2025-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (both bounds inclusive)", len(records))
	}
}

func TestLedgerStore_MissingFileIsEmptyHistory(t *testing.T) {
	store := NewLedgerStore(filepath.Join(t.TempDir(), "appointments.csv"))

	records, err := store.ListRange(context.Background(), "2025-09-01", "2025-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}
