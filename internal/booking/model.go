package booking

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// TimeSlot is a half-open candidate appointment interval in wall-clock
// "HH:MM" notation.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Appointment struct {
	ID              uuid.UUID
	ClinicID        uuid.UUID
	DoctorID        uuid.UUID
	PatientName     string
	PatientPhone    string
	PatientEmail    string
	Service         string
	Date            string // "YYYY-MM-DD"
	Time            string // start, "HH:MM"
	DurationMinutes int
	Notes           string
	Status          AppointmentStatus
	CreatedAt       time.Time
}

// BookingRequest is the inbound shape handed to the orchestrator by the HTTP
// layer. DurationMinutes may be zero, in which case the duration is resolved
// from the clinic's service catalog.
type BookingRequest struct {
	ClinicID        uuid.UUID
	DoctorID        uuid.UUID
	PatientName     string
	PatientPhone    string
	PatientEmail    string
	Service         string
	Date            string
	Time            string
	DurationMinutes int
	Notes           string
}

// BookingConfirmation is the orchestrator's success result: the persisted
// appointment plus the best-effort notification outcome.
type BookingConfirmation struct {
	Appointment   *Appointment
	MessagingSent bool
	EmailSent     bool
}

// DoctorSummary is returned by the optional doctor-sync capability.
type DoctorSummary struct {
	ID        uuid.UUID
	Name      string
	Specialty string
}
