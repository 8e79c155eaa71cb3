package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/lock"
	"github.com/clinicware/appointment-engine/internal/scheduling"
	csvstore "github.com/clinicware/appointment-engine/internal/store/csv"
)

// newTestRouter wires the full stack over csv files in a temp dir, the same
// shape the server runs with in single-node mode.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	slotStore := csvstore.NewSlotStore(filepath.Join(dir, "schedules.csv"))
	patientStore := csvstore.NewPatientStore(filepath.Join(dir, "patients.csv"))
	ledgerStore := csvstore.NewLedgerStore(filepath.Join(dir, "appointments.csv"))

	var slots []scheduling.Slot
	for _, start := range []string{"09:00", "09:30", "10:00", "10:30"} {
		st, _ := time.Parse(scheduling.ClockLayout, start)
		slots = append(slots, scheduling.Slot{
			Provider: "Dr. Sharma",
			Location: "Main Clinic",
			Date:     "2025-09-10",
			Start:    start,
			End:      st.Add(30 * time.Minute).Format(scheduling.ClockLayout),
		})
	}
	if err := slotStore.WriteAll(context.Background(), slots); err != nil {
		t.Fatalf("seed slots: %v", err)
	}

	clock := func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }
	locker := lock.NewLocalLocker()
	calendar := scheduling.NewCalendar(slotStore)
	ledger := scheduling.NewLedger(ledgerStore)

	return NewRouter(RouterConfig{
		Availability: scheduling.NewAvailability(calendar, clock),
		Bookings:     scheduling.NewBookings(calendar, ledger, nil, locker, zap.NewNop(), clock),
		Patients:     scheduling.NewPatients(patientStore, locker, clock),
		Ledger:       ledger,
		Log:          zap.NewNop(),
		Env:          "test",
		Version:      "test",
	})
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestAvailabilityThenBooking(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/availability?provider=Dr.+Sharma&date=2025-09-10&duration=60", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("availability status = %d, body %s", rec.Code, rec.Body.String())
	}
	offerings := decode[[]scheduling.Offering](t, rec)
	if len(offerings) != 3 {
		t.Fatalf("got %d offerings for 60m over 4 adjacent slots, want 3", len(offerings))
	}

	rec = do(t, h, http.MethodPost, "/bookings", BookingRequest{
		OfferingID:  offerings[0].ID,
		PatientName: "John Doe",
		Email:       "john@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d, body %s", rec.Code, rec.Body.String())
	}
	booked := decode[scheduling.BookingRecord](t, rec)
	if booked.BookingID == "" || booked.DurationMinutes != 60 {
		t.Errorf("booking record = %+v", booked)
	}

	// The same offering again conflicts.
	rec = do(t, h, http.MethodPost, "/bookings", BookingRequest{
		OfferingID:  offerings[0].ID,
		PatientName: "Jane Roe",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("rebooking status = %d, want 409", rec.Code)
	}

	// And the claimed slots no longer show up as available.
	rec = do(t, h, http.MethodGet, "/availability?provider=Dr.+Sharma&date=2025-09-10&duration=60", nil)
	remaining := decode[[]scheduling.Offering](t, rec)
	if len(remaining) != 1 {
		t.Fatalf("got %d offerings after booking, want 1", len(remaining))
	}
}

func TestAvailability_PastDateIs400(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/availability?provider=Dr.+Sharma&date=2024-01-01", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	if resp.Error != "validation_error" {
		t.Errorf("error code = %q", resp.Error)
	}
}

func TestBooking_UnknownProviderIs404(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/bookings", BookingRequest{
		OfferingID:  "Dr. Nobody|2025-09-10|09:00",
		PatientName: "X",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}
}

func TestBooking_RequestValidation(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/bookings", BookingRequest{
		PatientName: "X",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing offering_id: status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/bookings", BookingRequest{
		OfferingID:  "Dr. Sharma|2025-09-10|09:00",
		PatientName: "X",
		Email:       "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: status = %d, want 400", rec.Code)
	}
}

func TestPatientUpsertAndLookup(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/patients", PatientUpsertRequest{
		FirstName: "John", LastName: "Doe", DOB: "1990-01-01",
		Email: "john@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first upsert status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Same identity, different casing: merged, not created.
	rec = do(t, h, http.MethodPut, "/patients", PatientUpsertRequest{
		FirstName: "john", LastName: "doe", DOB: "1990-01-01",
		Phone: "555-0101",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second upsert status = %d, want 200", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/patients?first_name=JOHN&last_name=DOE&dob=1990-01-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup status = %d, body %s", rec.Code, rec.Body.String())
	}
	p := decode[scheduling.Patient](t, rec)
	if p.Email != "john@example.com" || p.Phone != "555-0101" {
		t.Errorf("merged patient = %+v", p)
	}

	rec = do(t, h, http.MethodGet, "/patients?first_name=No&last_name=Body&dob=2000-01-01", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown patient status = %d, want 404", rec.Code)
	}
}

func TestReport(t *testing.T) {
	h := newTestRouter(t)

	for _, offering := range []string{
		"Dr. Sharma|2025-09-10|09:00",
		"Dr. Sharma|2025-09-10|09:30+10:00",
	} {
		rec := do(t, h, http.MethodPost, "/bookings", BookingRequest{
			OfferingID:  offering,
			PatientName: "John Doe",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("booking status = %d, body %s", rec.Code, rec.Body.String())
		}
	}

	rec := do(t, h, http.MethodGet, "/reports?from=2025-09-01&to=2025-09-30", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d, body %s", rec.Code, rec.Body.String())
	}
	rows := decode[[]scheduling.ReportRow](t, rec)
	if len(rows) != 1 {
		t.Fatalf("got %d report rows, want 1", len(rows))
	}
	row := rows[0]
	if row.TotalAppointments != 2 || row.TotalMinutes != 90 || row.AvgDurationMinutes != 45.0 {
		t.Errorf("row = %+v, want 2 appointments / 90 min / 45.0 avg", row)
	}

	rec = do(t, h, http.MethodGet, "/reports?from=2025-09-30&to=2025-09-01", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("inverted range status = %d, want 400", rec.Code)
	}
}

func TestHealthLive(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
