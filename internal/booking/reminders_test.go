package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
)

type stubReminderSender struct {
	ok      bool
	notices []notify.BookingNotice
}

func (s *stubReminderSender) Reminder(ctx context.Context, n notify.BookingNotice) bool {
	s.notices = append(s.notices, n)
	return s.ok
}

func reminderFixture(t *testing.T, sender *stubReminderSender) (*ReminderService, *MemoryStore, Appointment) {
	t.Helper()

	dir := directory.NewMemoryStore()
	clinic := directory.Clinic{ID: uuid.New(), Name: "Sunrise Dental", NotifyEmail: "front@sunrise.example"}
	doctor := directory.Doctor{ID: uuid.New(), ClinicID: clinic.ID, Name: "Ana Ruiz"}
	dir.PutClinic(clinic)
	dir.PutDoctor(doctor)

	store := NewMemoryStore()
	appt := newAppointment(doctor.ID, monday, "10:00", 30)
	appt.ClinicID = clinic.ID
	require.NoError(t, store.Reserve(context.Background(), appt))

	return NewReminderService(store, dir, sender), store, appt
}

func TestReminders_SendsOncePerAppointment(t *testing.T) {
	sender := &stubReminderSender{ok: true}
	svc, _, appt := reminderFixture(t, sender)
	ctx := context.Background()

	require.NoError(t, svc.SendForDate(ctx, monday))
	require.Len(t, sender.notices, 1)

	notice := sender.notices[0]
	assert.Equal(t, appt.PatientName, notice.PatientName)
	assert.Equal(t, appt.PatientPhone, notice.PatientPhone)
	assert.Equal(t, "Sunrise Dental", notice.ClinicName)
	assert.Equal(t, "Ana Ruiz", notice.DoctorName)
	assert.Equal(t, monday, notice.Date)
	assert.Equal(t, "10:00", notice.Time)

	// A second run must not repeat the reminder.
	require.NoError(t, svc.SendForDate(ctx, monday))
	assert.Len(t, sender.notices, 1)
}

func TestReminders_FailureRetriedNextRun(t *testing.T) {
	sender := &stubReminderSender{ok: false}
	svc, _, _ := reminderFixture(t, sender)
	ctx := context.Background()

	require.NoError(t, svc.SendForDate(ctx, monday))
	require.Len(t, sender.notices, 1)

	sender.ok = true
	require.NoError(t, svc.SendForDate(ctx, monday))
	require.Len(t, sender.notices, 2)

	// Delivered now, so the third run is quiet.
	require.NoError(t, svc.SendForDate(ctx, monday))
	assert.Len(t, sender.notices, 2)
}

func TestReminders_SkipsCancelled(t *testing.T) {
	sender := &stubReminderSender{ok: true}
	svc, store, appt := reminderFixture(t, sender)
	ctx := context.Background()

	require.NoError(t, store.Cancel(ctx, appt.ID))
	require.NoError(t, svc.SendForDate(ctx, monday))
	assert.Empty(t, sender.notices)
}

func TestReminders_EmptyDate(t *testing.T) {
	sender := &stubReminderSender{ok: true}
	svc, _, _ := reminderFixture(t, sender)

	require.NoError(t, svc.SendForDate(context.Background(), "2026-09-15"))
	assert.Empty(t, sender.notices)
}
