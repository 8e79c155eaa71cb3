package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

type SlotStore struct {
	pool *pgxpool.Pool
}

func NewSlotStore(pool *pgxpool.Pool) *SlotStore {
	return &SlotStore{pool: pool}
}

func (s *SlotStore) ListDay(ctx context.Context, provider, date string) ([]scheduling.Slot, error) {
	day, err := scheduling.ParseDate(date)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT provider_id, location, slot_date, start_time, end_time, is_booked
		FROM slots
		WHERE lower(provider_id) = lower($1) AND slot_date = $2
		ORDER BY start_time
	`, provider, day)
	if err != nil {
		return nil, fmt.Errorf("%w: query slots: %v", scheduling.ErrStorage, err)
	}
	defer rows.Close()

	var out []scheduling.Slot
	for rows.Next() {
		var slot scheduling.Slot
		if err := rows.Scan(&slot.Provider, &slot.Location, &slot.Date, &slot.Start, &slot.End, &slot.Booked); err != nil {
			return nil, fmt.Errorf("%w: scan slot: %v", scheduling.ErrStorage, err)
		}
		out = append(out, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read slots: %v", scheduling.ErrStorage, err)
	}
	return out, nil
}

// Claim flips is_booked for every requested start in one conditional
// UPDATE inside a transaction; a shortfall in affected rows means some
// slot was taken or missing and the whole claim rolls back.
func (s *SlotStore) Claim(ctx context.Context, provider, date string, starts []string) error {
	day, err := scheduling.ParseDate(date)
	if err != nil {
		return err
	}
	canonical := make([]string, 0, len(starts))
	for _, raw := range starts {
		start, err := scheduling.ParseClock(raw)
		if err != nil {
			return err
		}
		canonical = append(canonical, start)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin claim: %v", scheduling.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	var dayCount int
	err = tx.QueryRow(ctx, `
		SELECT count(*) FROM slots
		WHERE lower(provider_id) = lower($1) AND slot_date = $2
	`, provider, day).Scan(&dayCount)
	if err != nil {
		return fmt.Errorf("%w: count slots: %v", scheduling.ErrStorage, err)
	}
	if dayCount == 0 {
		return fmt.Errorf("%w: no slots for %s on %s", scheduling.ErrNotFound, provider, day)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE slots
		SET is_booked = TRUE
		WHERE lower(provider_id) = lower($1)
		  AND slot_date = $2
		  AND start_time = ANY($3)
		  AND is_booked = FALSE
	`, provider, day, canonical)
	if err != nil {
		return fmt.Errorf("%w: claim slots: %v", scheduling.ErrStorage, err)
	}
	if int(tag.RowsAffected()) != len(canonical) {
		return fmt.Errorf("%w: %d of %d slots no longer available for %s on %s",
			scheduling.ErrConflict, len(canonical)-int(tag.RowsAffected()), len(canonical), provider, day)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit claim: %v", scheduling.ErrStorage, err)
	}
	return nil
}

// WriteAll replaces the calendar; used by the seeding command only.
func (s *SlotStore) WriteAll(ctx context.Context, slots []scheduling.Slot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin write: %v", scheduling.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE slots`); err != nil {
		return fmt.Errorf("%w: truncate slots: %v", scheduling.ErrStorage, err)
	}
	for _, slot := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO slots (provider_id, location, slot_date, start_time, end_time, is_booked)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, slot.Provider, slot.Location, slot.Date, slot.Start, slot.End, slot.Booked)
		if err != nil {
			return fmt.Errorf("%w: insert slot: %v", scheduling.ErrStorage, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit write: %v", scheduling.ErrStorage, err)
	}
	return nil
}
