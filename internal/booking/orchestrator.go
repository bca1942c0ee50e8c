package booking

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
)

// Notifier is the dispatcher seam. It can never fail the booking; it only
// reports per-channel outcome flags.
type Notifier interface {
	Dispatch(ctx context.Context, n notify.BookingNotice) notify.Result
}

// Orchestrator coordinates a booking end to end: validate, resolve the
// clinic and its adapter, delegate conflict-checked persistence, then
// trigger notifications. It holds no state of its own.
type Orchestrator struct {
	directory directory.Store
	adapters  *AdapterSet
	notifier  Notifier
}

func NewOrchestrator(dir directory.Store, adapters *AdapterSet, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		directory: dir,
		adapters:  adapters,
		notifier:  notifier,
	}
}

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

func validateRequest(req *BookingRequest) error {
	var fields []string

	if strings.TrimSpace(req.PatientName) == "" {
		fields = append(fields, "patient_name")
	}
	if strings.TrimSpace(req.PatientPhone) == "" {
		fields = append(fields, "patient_phone")
	}
	if req.ClinicID == uuid.Nil {
		fields = append(fields, "clinic_id")
	}
	if req.DoctorID == uuid.Nil {
		fields = append(fields, "doctor_id")
	}
	if strings.TrimSpace(req.Service) == "" {
		fields = append(fields, "service")
	}
	if !dateRe.MatchString(req.Date) {
		fields = append(fields, "date")
	}
	if !clockRe.MatchString(req.Time) {
		fields = append(fields, "time")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// resolveDuration falls back to the clinic's service catalog when the
// request does not carry an explicit duration.
func (o *Orchestrator) resolveDuration(ctx context.Context, req *BookingRequest) error {
	if req.DurationMinutes > 0 {
		return nil
	}

	d, err := o.serviceDuration(ctx, req.ClinicID, req.Service)
	if err != nil {
		return err
	}
	req.DurationMinutes = d
	return nil
}

func (o *Orchestrator) serviceDuration(ctx context.Context, clinicID uuid.UUID, service string) (int, error) {
	entries, err := o.directory.ServicesForClinic(ctx, clinicID)
	if err != nil {
		return 0, fmt.Errorf("load service catalog: %w", err)
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, service) {
			return e.DurationMinutes, nil
		}
	}
	return 0, &ValidationError{Fields: []string{"duration_minutes"}}
}

// Book validates the request, reserves through the clinic's adapter, then
// dispatches notifications. Adapter failures propagate verbatim; dispatcher
// outcomes are merged as flags and can never invalidate the confirmed
// appointment.
func (o *Orchestrator) Book(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	clinic, err := o.directory.GetClinic(ctx, req.ClinicID)
	if err != nil {
		return nil, err
	}

	if err := o.resolveDuration(ctx, &req); err != nil {
		return nil, err
	}

	adapter := o.adapters.For(clinic.Integration)

	appt, err := adapter.CreateAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	confirmation := &BookingConfirmation{Appointment: appt}

	if o.notifier != nil {
		doctorName := ""
		if doctor, err := o.directory.GetDoctor(ctx, req.DoctorID); err == nil {
			doctorName = doctor.Name
		} else {
			log.Printf("booking %s confirmed but doctor lookup failed for notification: %v", appt.ID, err)
		}

		result := o.notifier.Dispatch(ctx, notify.BookingNotice{
			ClinicName:   clinic.Name,
			ClinicEmail:  clinic.NotifyEmail,
			PatientName:  appt.PatientName,
			PatientPhone: appt.PatientPhone,
			PatientEmail: appt.PatientEmail,
			DoctorName:   doctorName,
			Service:      appt.Service,
			Date:         appt.Date,
			Time:         appt.Time,
		})
		confirmation.MessagingSent = result.MessagingSent
		confirmation.EmailSent = result.EmailSent
	}

	return confirmation, nil
}

// AvailabilityQuery asks for a doctor's free slots on one date. The slot
// length comes from DurationMinutes, or from the clinic's service catalog via
// Service when no explicit duration is given.
type AvailabilityQuery struct {
	ClinicID        uuid.UUID
	DoctorID        uuid.UUID
	Date            string
	Service         string
	DurationMinutes int
}

// Availability validates the query and delegates to the clinic's adapter.
func (o *Orchestrator) Availability(ctx context.Context, q AvailabilityQuery) ([]TimeSlot, error) {
	var fields []string
	if q.ClinicID == uuid.Nil {
		fields = append(fields, "clinic_id")
	}
	if q.DoctorID == uuid.Nil {
		fields = append(fields, "doctor_id")
	}
	if !dateRe.MatchString(q.Date) {
		fields = append(fields, "date")
	}
	if q.DurationMinutes <= 0 && strings.TrimSpace(q.Service) == "" {
		fields = append(fields, "duration_minutes")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	clinic, err := o.directory.GetClinic(ctx, q.ClinicID)
	if err != nil {
		return nil, err
	}

	if q.DurationMinutes <= 0 {
		d, err := o.serviceDuration(ctx, q.ClinicID, q.Service)
		if err != nil {
			return nil, err
		}
		q.DurationMinutes = d
	}

	return o.adapters.For(clinic.Integration).QueryAvailability(ctx, q.DoctorID, q.Date, q.DurationMinutes)
}

// Cancel resolves the clinic's adapter and cancels through it.
func (o *Orchestrator) Cancel(ctx context.Context, clinicID, appointmentID uuid.UUID) error {
	clinic, err := o.directory.GetClinic(ctx, clinicID)
	if err != nil {
		return err
	}
	return o.adapters.For(clinic.Integration).CancelAppointment(ctx, appointmentID)
}

// SyncDoctors exercises the optional capability; adapters without it fail
// with ErrSyncNotSupported.
func (o *Orchestrator) SyncDoctors(ctx context.Context, clinicID uuid.UUID) ([]DoctorSummary, error) {
	clinic, err := o.directory.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	adapter := o.adapters.For(clinic.Integration)
	syncer, ok := adapter.(DoctorSyncer)
	if !ok {
		return nil, ErrSyncNotSupported
	}
	return syncer.SyncDoctors(ctx, clinicID)
}
