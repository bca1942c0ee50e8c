package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinickit/dental-booking/internal/booking"
	"github.com/clinickit/dental-booking/internal/directory"
)

func createBookingHandler(orc *booking.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		confirmation, err := orc.Book(r.Context(), booking.BookingRequest{
			ClinicID:        clinicID,
			DoctorID:        doctorID,
			PatientName:     req.PatientName,
			PatientPhone:    req.PatientPhone,
			PatientEmail:    req.PatientEmail,
			Service:         req.Service,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: req.DurationMinutes,
			Notes:           req.Notes,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{
			Appointment:   toAppointmentResponse(confirmation.Appointment),
			MessagingSent: confirmation.MessagingSent,
			EmailSent:     confirmation.EmailSent,
		})
	}
}

func availabilityHandler(orc *booking.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		clinicID, err := uuid.Parse(q.Get("clinic_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return
		}

		doctorID, err := uuid.Parse(q.Get("doctor_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}

		// duration_minutes is optional when a service name is given; the
		// orchestrator resolves the duration from the clinic's catalog.
		duration := 0
		if v := q.Get("duration_minutes"); v != "" {
			duration, err = strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duration_minutes must be an integer")
				return
			}
		}

		date := q.Get("date")

		slots, err := orc.Availability(r.Context(), booking.AvailabilityQuery{
			ClinicID:        clinicID,
			DoctorID:        doctorID,
			Date:            date,
			Service:         q.Get("service"),
			DurationMinutes: duration,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := AvailabilityResponse{
			DoctorID: doctorID,
			Date:     date,
			Slots:    make([]TimeSlotResponse, 0, len(slots)),
		}
		for _, s := range slots {
			resp.Slots = append(resp.Slots, TimeSlotResponse{Start: s.Start, End: s.End})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func cancelAppointmentHandler(orc *booking.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		clinicID, err := uuid.Parse(r.URL.Query().Get("clinic_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return
		}

		if err := orc.Cancel(r.Context(), clinicID, id); err != nil {
			handleBookingError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listServicesHandler(dir directory.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "id must be a valid UUID")
			return
		}

		if _, err := dir.GetClinic(r.Context(), clinicID); err != nil {
			handleBookingError(w, err)
			return
		}

		entries, err := dir.ServicesForClinic(r.Context(), clinicID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]ServiceResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, ServiceResponse{
				Name:            e.Name,
				DurationMinutes: e.DurationMinutes,
				PriceCents:      e.PriceCents,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func syncDoctorsHandler(orc *booking.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clinicID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "id must be a valid UUID")
			return
		}

		doctors, err := orc.SyncDoctors(r.Context(), clinicID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]DoctorSummaryResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, DoctorSummaryResponse{ID: d.ID, Name: d.Name, Specialty: d.Specialty})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		ClinicID:        a.ClinicID,
		DoctorID:        a.DoctorID,
		PatientName:     a.PatientName,
		PatientPhone:    a.PatientPhone,
		PatientEmail:    a.PatientEmail,
		Service:         a.Service,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Notes:           a.Notes,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	if ve, ok := booking.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Details: ve.Error(),
			Fields:  ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, directory.ErrClinicNotFound):
		writeError(w, http.StatusNotFound, "clinic_not_found", err.Error())
	case errors.Is(err, directory.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	// ErrSlotBeingBooked wraps ErrSlotUnavailable, so it must be checked
	// first to keep the distinct response code.
	case errors.Is(err, booking.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, booking.ErrSyncNotSupported):
		writeError(w, http.StatusConflict, "sync_not_supported", err.Error())
	case errors.Is(err, booking.ErrIntegrationUnavailable):
		writeError(w, http.StatusBadGateway, "integration_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
