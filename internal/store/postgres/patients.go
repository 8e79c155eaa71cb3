package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

type PatientStore struct {
	pool *pgxpool.Pool
}

func NewPatientStore(pool *pgxpool.Pool) *PatientStore {
	return &PatientStore{pool: pool}
}

func (s *PatientStore) Get(ctx context.Context, id scheduling.PatientIdentity) (*scheduling.Patient, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT first_name, last_name, dob, email, phone,
		       preferred_provider, location, insurance_carrier,
		       member_id, group_id, created_at
		FROM patients
		WHERE lower(first_name) = lower($1)
		  AND lower(last_name) = lower($2)
		  AND dob = $3
	`, id.FirstName, id.LastName, id.DOB)

	var p scheduling.Patient
	err := row.Scan(
		&p.FirstName, &p.LastName, &p.DOB, &p.Email, &p.Phone,
		&p.PreferredProvider, &p.Location, &p.InsuranceCarrier,
		&p.MemberID, &p.GroupID, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: patient %s %s", scheduling.ErrNotFound, id.FirstName, id.LastName)
		}
		return nil, fmt.Errorf("%w: scan patient: %v", scheduling.ErrStorage, err)
	}
	return &p, nil
}

func (s *PatientStore) Put(ctx context.Context, p scheduling.Patient) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patients (first_name, last_name, dob, email, phone,
		                      preferred_provider, location, insurance_carrier,
		                      member_id, group_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (lower(first_name), lower(last_name), dob)
		DO UPDATE SET
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			preferred_provider = EXCLUDED.preferred_provider,
			location = EXCLUDED.location,
			insurance_carrier = EXCLUDED.insurance_carrier,
			member_id = EXCLUDED.member_id,
			group_id = EXCLUDED.group_id
	`, p.FirstName, p.LastName, p.DOB, p.Email, p.Phone,
		p.PreferredProvider, p.Location, p.InsuranceCarrier,
		p.MemberID, p.GroupID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: upsert patient: %v", scheduling.ErrStorage, err)
	}
	return nil
}
