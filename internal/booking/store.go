package booking

import (
	"context"

	"github.com/google/uuid"
)

// AppointmentStore owns appointment records once created. Implementations
// must make Reserve an atomic reserve-if-free: the insert fails with
// ErrSlotUnavailable when a non-cancelled appointment already holds the same
// (doctorID, date, start time), regardless of concurrent callers.
type AppointmentStore interface {
	// ListByDoctorDate returns every appointment for the key, including
	// cancelled ones; callers filter by status.
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error)

	// ListByDate returns all non-cancelled appointments on a date across
	// doctors. Used by the reminder worker.
	ListByDate(ctx context.Context, date string) ([]Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	Reserve(ctx context.Context, appt Appointment) error

	// Cancel marks the appointment cancelled. Cancelling an already
	// cancelled appointment succeeds silently. Fails with
	// ErrAppointmentNotFound for unknown ids.
	Cancel(ctx context.Context, id uuid.UUID) error
}
