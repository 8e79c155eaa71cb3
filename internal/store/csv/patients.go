package csvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

var patientHeader = []string{
	"first_name", "last_name", "dob", "email", "phone",
	"preferred_provider", "location", "insurance_carrier",
	"member_id", "group_id", "created_at",
}

// PatientStore persists the patient directory in a single CSV file. A
// missing file is an empty directory; it is created on first Put.
type PatientStore struct {
	path string
	mu   sync.Mutex
}

func NewPatientStore(path string) *PatientStore {
	return &PatientStore{path: path}
}

func (s *PatientStore) Get(ctx context.Context, id scheduling.PatientIdentity) (*scheduling.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		if p.Identity().Key() == id.Key() {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: patient %s %s", scheduling.ErrNotFound, id.FirstName, id.LastName)
}

func (s *PatientStore) Put(ctx context.Context, incoming scheduling.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, p := range patients {
		if p.Identity().Key() == incoming.Identity().Key() {
			patients[i] = incoming
			replaced = true
			break
		}
	}
	if !replaced {
		patients = append(patients, incoming)
	}
	return s.save(patients)
}

func (s *PatientStore) load() ([]scheduling.Patient, error) {
	_, rows, exists, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	patients := make([]scheduling.Patient, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(patientHeader) {
			return nil, fmt.Errorf("%w: malformed patient row %v", scheduling.ErrStorage, row)
		}
		created, _ := time.Parse(time.RFC3339, row[10])
		patients = append(patients, scheduling.Patient{
			FirstName:         row[0],
			LastName:          row[1],
			DOB:               row[2],
			Email:             row[3],
			Phone:             row[4],
			PreferredProvider: row[5],
			Location:          row[6],
			InsuranceCarrier:  row[7],
			MemberID:          row[8],
			GroupID:           row[9],
			CreatedAt:         created,
		})
	}
	return patients, nil
}

func (s *PatientStore) save(patients []scheduling.Patient) error {
	rows := make([][]string, 0, len(patients))
	for _, p := range patients {
		rows = append(rows, []string{
			p.FirstName,
			p.LastName,
			p.DOB,
			p.Email,
			p.Phone,
			p.PreferredProvider,
			p.Location,
			p.InsuranceCarrier,
			p.MemberID,
			p.GroupID,
			p.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeTable(s.path, patientHeader, rows)
}
