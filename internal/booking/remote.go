package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RemoteAdapter represents a clinic integration whose back end is not wired
// yet. It is capability-complete so the factory and orchestrator treat it
// exactly like the in-house scheduler, but every operation returns
// ErrIntegrationUnavailable with remediation text.
type RemoteAdapter struct {
	kind        Integration
	remediation string
}

func NewGesdenAdapter() *RemoteAdapter {
	return &RemoteAdapter{
		kind:        IntegrationGesden,
		remediation: "the Gesden connector is not enabled for this environment; contact support to activate it",
	}
}

func NewKlinicareAdapter() *RemoteAdapter {
	return &RemoteAdapter{
		kind:        IntegrationKlinicare,
		remediation: "the Klinicare connector is not enabled for this environment; contact support to activate it",
	}
}

func (a *RemoteAdapter) Name() string { return string(a.kind) }

func (a *RemoteAdapter) unavailable() error {
	return fmt.Errorf("%s: %w: %s", a.kind, ErrIntegrationUnavailable, a.remediation)
}

func (a *RemoteAdapter) QueryAvailability(ctx context.Context, doctorID uuid.UUID, date string, durationMinutes int) ([]TimeSlot, error) {
	return nil, a.unavailable()
}

func (a *RemoteAdapter) CreateAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	return nil, a.unavailable()
}

func (a *RemoteAdapter) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return a.unavailable()
}

func (a *RemoteAdapter) SyncDoctors(ctx context.Context, clinicID uuid.UUID) ([]DoctorSummary, error) {
	return nil, a.unavailable()
}

var (
	_ SchedulerAdapter = (*RemoteAdapter)(nil)
	_ DoctorSyncer     = (*RemoteAdapter)(nil)
)
