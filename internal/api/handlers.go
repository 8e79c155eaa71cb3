package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

func availabilityHandler(svc *scheduling.Availability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		provider := q.Get("provider")
		date := q.Get("date")

		duration := scheduling.BaseSlotMinutes
		if v := q.Get("duration"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duration must be an integer number of minutes")
				return
			}
			duration = n
		}

		offerings, err := svc.FindOfferings(r.Context(), provider, date, duration)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		if offerings == nil {
			offerings = []scheduling.Offering{}
		}
		writeJSON(w, http.StatusOK, offerings)
	}
}

func createBookingHandler(svc *scheduling.Bookings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		rec, err := svc.Book(r.Context(), req.OfferingID, req.PatientName, scheduling.Contact{
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func upsertPatientHandler(svc *scheduling.Patients) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientUpsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		result, err := svc.Upsert(r.Context(), scheduling.Patient{
			FirstName:         req.FirstName,
			LastName:          req.LastName,
			DOB:               req.DOB,
			Email:             req.Email,
			Phone:             req.Phone,
			PreferredProvider: req.PreferredProvider,
			Location:          req.Location,
			InsuranceCarrier:  req.InsuranceCarrier,
			MemberID:          req.MemberID,
			GroupID:           req.GroupID,
		})
		if err != nil {
			handleDomainError(w, err)
			return
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, result)
	}
}

func lookupPatientHandler(svc *scheduling.Patients) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		identity := scheduling.PatientIdentity{
			FirstName: q.Get("first_name"),
			LastName:  q.Get("last_name"),
			DOB:       q.Get("dob"),
		}
		if identity.FirstName == "" || identity.LastName == "" || identity.DOB == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "first_name, last_name and dob are required")
			return
		}

		patient, err := svc.Lookup(r.Context(), identity)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, patient)
	}
}

func reportHandler(svc *scheduling.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		rows, err := svc.Report(r.Context(), q.Get("from"), q.Get("to"))
		if err != nil {
			handleDomainError(w, err)
			return
		}
		if rows == nil {
			rows = []scheduling.ReportRow{}
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

// handleDomainError maps the four domain error kinds onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, scheduling.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, scheduling.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, scheduling.ErrStorage):
		writeError(w, http.StatusServiceUnavailable, "storage_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
