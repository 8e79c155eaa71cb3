package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

type LedgerStore struct {
	pool *pgxpool.Pool
}

func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

func (s *LedgerStore) Append(ctx context.Context, rec scheduling.BookingRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger (booking_id, patient_name, patient_email, patient_phone,
		                    provider, location, slot_date, start_time, end_time,
		                    duration_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, rec.BookingID, rec.PatientName, rec.PatientEmail, rec.PatientPhone,
		rec.Provider, rec.Location, rec.Date, rec.Start, rec.End,
		rec.DurationMinutes, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: append ledger row: %v", scheduling.ErrStorage, err)
	}
	return nil
}

func (s *LedgerStore) ListRange(ctx context.Context, from, to string) ([]scheduling.BookingRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT booking_id, patient_name, patient_email, patient_phone,
		       provider, location, slot_date, start_time, end_time,
		       duration_minutes, created_at
		FROM ledger
		WHERE slot_date >= $1 AND slot_date <= $2
		ORDER BY slot_date, provider, start_time
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: query ledger: %v", scheduling.ErrStorage, err)
	}
	defer rows.Close()

	var out []scheduling.BookingRecord
	for rows.Next() {
		var rec scheduling.BookingRecord
		err := rows.Scan(
			&rec.BookingID, &rec.PatientName, &rec.PatientEmail, &rec.PatientPhone,
			&rec.Provider, &rec.Location, &rec.Date, &rec.Start, &rec.End,
			&rec.DurationMinutes, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan ledger row: %v", scheduling.ErrStorage, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read ledger: %v", scheduling.ErrStorage, err)
	}
	return out, nil
}
