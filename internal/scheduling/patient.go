package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicware/appointment-engine/internal/lock"
)

// Patients is the deduplicated patient directory. Upserts for the same
// identity tuple are serialized through the locker so concurrent calls
// can never produce two rows.
type Patients struct {
	repo   PatientRepository
	locker lock.Locker
	now    Clock
}

func NewPatients(repo PatientRepository, locker lock.Locker, now Clock) *Patients {
	if now == nil {
		now = time.Now
	}
	return &Patients{repo: repo, locker: locker, now: now}
}

// UpsertResult reports whether the patient was newly created.
type UpsertResult struct {
	Created bool     `json:"created"`
	Patient *Patient `json:"patient"`
}

// Upsert inserts the patient on first sight and merges on every later
// sighting: non-empty incoming fields overwrite, empty fields never blank
// out a previously known value. Identity match is case-insensitive on
// names and exact on dob.
func (p *Patients) Upsert(ctx context.Context, incoming Patient) (*UpsertResult, error) {
	if incoming.FirstName == "" || incoming.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	dob, err := ParseDate(incoming.DOB)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dob %q", ErrValidation, incoming.DOB)
	}
	incoming.DOB = dob

	identity := incoming.Identity()
	var result *UpsertResult

	err = p.locker.WithLock(ctx, lock.PatientKey(identity.Key()), func(ctx context.Context) error {
		existing, err := p.repo.Get(ctx, identity)
		switch {
		case errors.Is(err, ErrNotFound):
			incoming.CreatedAt = p.now().UTC()
			if err := p.repo.Put(ctx, incoming); err != nil {
				return fmt.Errorf("insert patient: %w", err)
			}
			stored := incoming
			result = &UpsertResult{Created: true, Patient: &stored}
			return nil
		case err != nil:
			return fmt.Errorf("lookup patient: %w", err)
		}

		merged := mergePatient(*existing, incoming)
		if err := p.repo.Put(ctx, merged); err != nil {
			return fmt.Errorf("update patient: %w", err)
		}
		result = &UpsertResult{Created: false, Patient: &merged}
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, fmt.Errorf("%w: patient record is being updated, please retry", ErrConflict)
		}
		return nil, err
	}
	return result, nil
}

// Lookup resolves a patient by identity tuple.
func (p *Patients) Lookup(ctx context.Context, identity PatientIdentity) (*Patient, error) {
	dob, err := ParseDate(identity.DOB)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid dob %q", ErrValidation, identity.DOB)
	}
	identity.DOB = dob
	return p.repo.Get(ctx, identity)
}

// mergePatient applies last-write-wins on non-identity fields, skipping
// empty incoming values.
func mergePatient(existing, incoming Patient) Patient {
	out := existing
	overlay := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(&out.Email, incoming.Email)
	overlay(&out.Phone, incoming.Phone)
	overlay(&out.PreferredProvider, incoming.PreferredProvider)
	overlay(&out.Location, incoming.Location)
	overlay(&out.InsuranceCarrier, incoming.InsuranceCarrier)
	overlay(&out.MemberID, incoming.MemberID)
	overlay(&out.GroupID, incoming.GroupID)
	return out
}
