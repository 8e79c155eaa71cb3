package csvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

func TestPatientStore_RoundTrip(t *testing.T) {
	store := NewPatientStore(filepath.Join(t.TempDir(), "patients.csv"))
	ctx := context.Background()

	p := scheduling.Patient{
		FirstName:        "John",
		LastName:         "Doe",
		DOB:              "1990-01-01",
		Email:            "j@x.com",
		Phone:            "555-0101",
		InsuranceCarrier: "Aetna",
		MemberID:         "M-1",
		CreatedAt:        time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, scheduling.PatientIdentity{FirstName: "JOHN", LastName: "doe", DOB: "1990-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "j@x.com" || got.InsuranceCarrier != "Aetna" {
		t.Errorf("got %+v", got)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, p.CreatedAt)
	}
}

func TestPatientStore_PutReplacesExistingIdentity(t *testing.T) {
	store := NewPatientStore(filepath.Join(t.TempDir(), "patients.csv"))
	ctx := context.Background()

	if err := store.Put(ctx, scheduling.Patient{FirstName: "Ana", LastName: "Silva", DOB: "1985-06-15", Email: "a@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Put(ctx, scheduling.Patient{FirstName: "ana", LastName: "silva", DOB: "1985-06-15", Email: "new@x.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patients, err := store.load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 1 {
		t.Fatalf("got %d rows, want 1", len(patients))
	}
	if patients[0].Email != "new@x.com" {
		t.Errorf("email = %q, want replacement to win", patients[0].Email)
	}
}

func TestPatientStore_MissingFileIsEmptyDirectory(t *testing.T) {
	store := NewPatientStore(filepath.Join(t.TempDir(), "patients.csv"))

	_, err := store.Get(context.Background(), scheduling.PatientIdentity{FirstName: "A", LastName: "B", DOB: "2000-01-01"})
	if !errors.Is(err, scheduling.ErrNotFound) {
		t.Fatalf("want ErrNotFound on empty directory, got %v", err)
	}
}
