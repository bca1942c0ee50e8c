package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinickit/dental-booking/internal/directory"
	redisclient "github.com/clinickit/dental-booking/internal/redis"
)

// InHouseAdapter computes slots from the clinic directory's availability
// rules and owns the appointment store. It is the default scheduler for
// clinics without a third-party integration.
type InHouseAdapter struct {
	directory directory.Store
	store     AppointmentStore
	locker    redisclient.Locker
	now       func() time.Time
}

func NewInHouseAdapter(dir directory.Store, store AppointmentStore, locker redisclient.Locker) *InHouseAdapter {
	return &InHouseAdapter{
		directory: dir,
		store:     store,
		locker:    locker,
		now:       time.Now,
	}
}

func (a *InHouseAdapter) Name() string { return string(IntegrationManual) }

func (a *InHouseAdapter) QueryAvailability(ctx context.Context, doctorID uuid.UUID, date string, durationMinutes int) ([]TimeSlot, error) {
	rules, err := a.directory.RulesForDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			return []TimeSlot{}, nil
		}
		return nil, fmt.Errorf("load availability rules: %w", err)
	}
	if len(rules) == 0 {
		return []TimeSlot{}, nil
	}

	appts, err := a.store.ListByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	busy, err := busyIntervals(appts)
	if err != nil {
		return nil, err
	}

	return computeSlots(rules, busy, date, durationMinutes)
}

// CreateAppointment recomputes availability inside the booking lock and only
// accepts the request if the requested start exactly matches a free slot.
// The lock plus the store's reserve-if-free insert close the window in which
// two concurrent requests could both see the slot as open.
func (a *InHouseAdapter) CreateAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	var created *Appointment

	err := a.locker.WithBookingLock(ctx, req.DoctorID, req.Date, func(lockCtx context.Context) error {
		slots, err := a.QueryAvailability(lockCtx, req.DoctorID, req.Date, req.DurationMinutes)
		if err != nil {
			return err
		}

		match := false
		for _, slot := range slots {
			if slot.Start == req.Time {
				match = true
				break
			}
		}
		if !match {
			return ErrSlotUnavailable
		}

		appt := Appointment{
			ID:              uuid.New(),
			ClinicID:        req.ClinicID,
			DoctorID:        req.DoctorID,
			PatientName:     req.PatientName,
			PatientPhone:    req.PatientPhone,
			PatientEmail:    req.PatientEmail,
			Service:         req.Service,
			Date:            req.Date,
			Time:            req.Time,
			DurationMinutes: req.DurationMinutes,
			Notes:           req.Notes,
			Status:          StatusConfirmed,
			CreatedAt:       a.now().UTC(),
		}

		if err := a.store.Reserve(lockCtx, appt); err != nil {
			return fmt.Errorf("reserve appointment: %w", err)
		}

		created = &appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

func (a *InHouseAdapter) CancelAppointment(ctx context.Context, id uuid.UUID) error {
	return a.store.Cancel(ctx, id)
}

// SyncDoctors satisfies the optional DoctorSyncer capability from the
// directory itself, since the in-house scheduler is the system of record.
func (a *InHouseAdapter) SyncDoctors(ctx context.Context, clinicID uuid.UUID) ([]DoctorSummary, error) {
	doctors, err := a.directory.ListDoctorsByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	out := make([]DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		summary := DoctorSummary{ID: d.ID, Name: d.Name}
		if d.Specialty != nil {
			summary.Specialty = *d.Specialty
		}
		out = append(out, summary)
	}
	return out, nil
}

var (
	_ SchedulerAdapter = (*InHouseAdapter)(nil)
	_ DoctorSyncer     = (*InHouseAdapter)(nil)
)
