// Package booking implements the availability computation and reservation
// engine: a polymorphic scheduler-adapter contract with an in-house
// implementation, the adapter factory, and the booking orchestrator.
package booking

import (
	"context"

	"github.com/google/uuid"
)

// SchedulerAdapter is the capability boundary between the booking engine and
// a clinic's appointment system of record. Every clinic-integration variant
// implements it, whether or not its back end is wired.
type SchedulerAdapter interface {
	// Name returns the adapter identifier (e.g. "manual", "gesden").
	Name() string

	// QueryAvailability is a pure query. An unknown doctor or a date with
	// no matching availability rule yields an empty slice, never an error.
	QueryAvailability(ctx context.Context, doctorID uuid.UUID, date string, durationMinutes int) ([]TimeSlot, error)

	// CreateAppointment re-validates availability against current state at
	// call time; it never trusts a client-supplied slot as pre-verified.
	// Fails with ErrSlotUnavailable if the requested interval is not free.
	CreateAppointment(ctx context.Context, req BookingRequest) (*Appointment, error)

	// CancelAppointment fails with ErrAppointmentNotFound if the id does
	// not resolve to a record in this adapter's store.
	CancelAppointment(ctx context.Context, id uuid.UUID) error
}

// DoctorSyncer is the optional doctor-sync capability. Callers assert for it
// at the call site.
type DoctorSyncer interface {
	SyncDoctors(ctx context.Context, clinicID uuid.UUID) ([]DoctorSummary, error)
}

// Integration enumerates the clinic-integration variants.
type Integration string

const (
	IntegrationManual    Integration = "manual"
	IntegrationGesden    Integration = "gesden"
	IntegrationKlinicare Integration = "klinicare"
)

// ParseIntegration maps a clinic's configured integration identifier to a
// known kind. Unknown or empty identifiers resolve to the in-house scheduler,
// so a clinic with a missing or mistyped setting can still take bookings.
func ParseIntegration(s string) Integration {
	switch Integration(s) {
	case IntegrationGesden:
		return IntegrationGesden
	case IntegrationKlinicare:
		return IntegrationKlinicare
	default:
		return IntegrationManual
	}
}
