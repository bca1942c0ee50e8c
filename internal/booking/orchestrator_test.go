package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
	redisclient "github.com/clinickit/dental-booking/internal/redis"
)

type stubNotifier struct {
	calls  int
	last   notify.BookingNotice
	result notify.Result
}

func (s *stubNotifier) Dispatch(ctx context.Context, n notify.BookingNotice) notify.Result {
	s.calls++
	s.last = n
	return s.result
}

type orchestratorFixture struct {
	orc      *Orchestrator
	notifier *stubNotifier
	dir      *directory.MemoryStore
	clinicID uuid.UUID
	doctorID uuid.UUID
}

func newOrchestratorFixture(t *testing.T, integration string) *orchestratorFixture {
	t.Helper()

	dir := directory.NewMemoryStore()
	clinicID := uuid.New()
	doctorID := uuid.New()

	dir.PutClinic(directory.Clinic{
		ID:          clinicID,
		Name:        "Bright Smile Dental",
		Integration: integration,
		NotifyEmail: "front-desk@brightsmile.example",
	})
	dir.PutDoctor(directory.Doctor{ID: doctorID, ClinicID: clinicID, Name: "Dr. Ada Moreno"})
	dir.PutRules(doctorID,
		directory.AvailabilityRule{DoctorID: doctorID, DayOfWeek: 1, StartTime: "09:00", EndTime: "13:00"},
	)
	dir.PutServices(clinicID,
		directory.ServiceCatalogEntry{ClinicID: clinicID, Name: "Checkup", DurationMinutes: 30, PriceCents: 4500},
	)

	notifier := &stubNotifier{result: notify.Result{MessagingSent: true, EmailSent: true}}
	inHouse := NewInHouseAdapter(dir, NewMemoryStore(), redisclient.NewLocalLocker())
	orc := NewOrchestrator(dir, NewAdapterSet(inHouse), notifier)

	return &orchestratorFixture{
		orc:      orc,
		notifier: notifier,
		dir:      dir,
		clinicID: clinicID,
		doctorID: doctorID,
	}
}

func (f *orchestratorFixture) request() BookingRequest {
	return BookingRequest{
		ClinicID:        f.clinicID,
		DoctorID:        f.doctorID,
		PatientName:     "Maria Lopez",
		PatientPhone:    "+34600111222",
		PatientEmail:    "maria@example.com",
		Service:         "Checkup",
		Date:            monday,
		Time:            "09:00",
		DurationMinutes: 30,
	}
}

func TestBook_Success(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	confirmation, err := f.orc.Book(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, confirmation.Appointment.Status)
	assert.True(t, confirmation.MessagingSent)
	assert.True(t, confirmation.EmailSent)

	require.Equal(t, 1, f.notifier.calls)
	assert.Equal(t, "Bright Smile Dental", f.notifier.last.ClinicName)
	assert.Equal(t, "front-desk@brightsmile.example", f.notifier.last.ClinicEmail)
	assert.Equal(t, "Dr. Ada Moreno", f.notifier.last.DoctorName)
}

func TestBook_ValidationErrorsListFields(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	req := f.request()
	req.PatientName = ""
	req.PatientPhone = "  "
	req.Date = "31/08/2026"

	_, err := f.orc.Book(context.Background(), req)
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.ElementsMatch(t, []string{"patient_name", "patient_phone", "date"}, ve.Fields)

	assert.Zero(t, f.notifier.calls, "validation failures must not notify")
}

func TestBook_ClinicNotFound(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	req := f.request()
	req.ClinicID = uuid.New()

	_, err := f.orc.Book(context.Background(), req)
	require.ErrorIs(t, err, directory.ErrClinicNotFound)
}

func TestBook_DurationResolvedFromCatalog(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	req := f.request()
	req.DurationMinutes = 0

	confirmation, err := f.orc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 30, confirmation.Appointment.DurationMinutes)
}

func TestBook_UnknownServiceWithoutDuration(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	req := f.request()
	req.DurationMinutes = 0
	req.Service = "Teleportation"

	_, err := f.orc.Book(context.Background(), req)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"duration_minutes"}, ve.Fields)
}

func TestBook_SlotUnavailablePropagatesVerbatim(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")
	ctx := context.Background()

	_, err := f.orc.Book(ctx, f.request())
	require.NoError(t, err)

	_, err = f.orc.Book(ctx, f.request())
	require.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Equal(t, 1, f.notifier.calls, "failed bookings must not notify")
}

func TestBook_IntegrationUnavailablePropagates(t *testing.T) {
	f := newOrchestratorFixture(t, "gesden")

	_, err := f.orc.Book(context.Background(), f.request())
	require.ErrorIs(t, err, ErrIntegrationUnavailable)
	assert.Zero(t, f.notifier.calls)
}

func TestBook_NotificationFailureDoesNotInvalidateBooking(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")
	f.notifier.result = notify.Result{}

	confirmation, err := f.orc.Book(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, confirmation.Appointment.Status)
	assert.False(t, confirmation.MessagingSent)
	assert.False(t, confirmation.EmailSent)
}

func TestBook_NilNotifier(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	inHouse := NewInHouseAdapter(f.dir, NewMemoryStore(), redisclient.NewLocalLocker())
	orc := NewOrchestrator(f.dir, NewAdapterSet(inHouse), nil)

	confirmation, err := orc.Book(context.Background(), f.request())
	require.NoError(t, err)
	assert.False(t, confirmation.MessagingSent)
	assert.False(t, confirmation.EmailSent)
}

func TestAvailability_Validation(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	_, err := f.orc.Availability(context.Background(), AvailabilityQuery{
		ClinicID: f.clinicID,
		Date:     "not-a-date",
	})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"doctor_id", "date", "duration_minutes"}, ve.Fields)
}

func TestAvailability_Delegates(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	slots, err := f.orc.Availability(context.Background(), AvailabilityQuery{
		ClinicID:        f.clinicID,
		DoctorID:        f.doctorID,
		Date:            monday,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestAvailability_ServiceResolvesDuration(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	slots, err := f.orc.Availability(context.Background(), AvailabilityQuery{
		ClinicID: f.clinicID,
		DoctorID: f.doctorID,
		Date:     monday,
		Service:  "checkup", // catalog match is case-insensitive
	})
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestAvailability_UnknownServiceRejected(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	_, err := f.orc.Availability(context.Background(), AvailabilityQuery{
		ClinicID: f.clinicID,
		DoctorID: f.doctorID,
		Date:     monday,
		Service:  "Teleportation",
	})
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"duration_minutes"}, ve.Fields)
}

func TestCancel_ThroughOrchestrator(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")
	ctx := context.Background()

	confirmation, err := f.orc.Book(ctx, f.request())
	require.NoError(t, err)

	require.NoError(t, f.orc.Cancel(ctx, f.clinicID, confirmation.Appointment.ID))

	slots, err := f.orc.Availability(ctx, AvailabilityQuery{
		ClinicID:        f.clinicID,
		DoctorID:        f.doctorID,
		Date:            monday,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", slots[0].Start, "cancelled slot reappears")
}

func TestSyncDoctors_RemoteUnavailable(t *testing.T) {
	f := newOrchestratorFixture(t, "klinicare")

	_, err := f.orc.SyncDoctors(context.Background(), f.clinicID)
	require.ErrorIs(t, err, ErrIntegrationUnavailable)
}

func TestSyncDoctors_InHouseThroughOrchestrator(t *testing.T) {
	f := newOrchestratorFixture(t, "manual")

	doctors, err := f.orc.SyncDoctors(context.Background(), f.clinicID)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
}
