package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointment(doctorID uuid.UUID, date, start string, duration int) Appointment {
	return Appointment{
		ID:              uuid.New(),
		ClinicID:        uuid.New(),
		DoctorID:        doctorID,
		PatientName:     "Maria Lopez",
		PatientPhone:    "+34600111222",
		Service:         "Checkup",
		Date:            date,
		Time:            start,
		DurationMinutes: duration,
		Status:          StatusConfirmed,
		CreatedAt:       time.Now().UTC(),
	}
}

func TestMemoryStore_ReserveConflictSameStart(t *testing.T) {
	store := NewMemoryStore()
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Reserve(ctx, newAppointment(doctorID, monday, "09:00", 30)))

	err := store.Reserve(ctx, newAppointment(doctorID, monday, "09:00", 30))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestMemoryStore_ReserveConflictOverlappingIntervals(t *testing.T) {
	store := NewMemoryStore()
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Reserve(ctx, newAppointment(doctorID, monday, "09:00", 60)))

	// Different start, but inside the hour-long booking.
	err := store.Reserve(ctx, newAppointment(doctorID, monday, "09:30", 30))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestMemoryStore_ReserveIsolatedByDoctorAndDate(t *testing.T) {
	store := NewMemoryStore()
	doctorID := uuid.New()
	ctx := context.Background()

	require.NoError(t, store.Reserve(ctx, newAppointment(doctorID, monday, "09:00", 30)))
	require.NoError(t, store.Reserve(ctx, newAppointment(uuid.New(), monday, "09:00", 30)))
	require.NoError(t, store.Reserve(ctx, newAppointment(doctorID, "2026-09-07", "09:00", 30)))
}

func TestMemoryStore_CancelFreesInterval(t *testing.T) {
	store := NewMemoryStore()
	doctorID := uuid.New()
	ctx := context.Background()

	appt := newAppointment(doctorID, monday, "09:00", 30)
	require.NoError(t, store.Reserve(ctx, appt))
	require.NoError(t, store.Cancel(ctx, appt.ID))

	require.NoError(t, store.Reserve(ctx, newAppointment(doctorID, monday, "09:00", 30)))
}

func TestMemoryStore_CancelUnknown(t *testing.T) {
	store := NewMemoryStore()

	err := store.Cancel(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMemoryStore_GetByIDReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	appt := newAppointment(uuid.New(), monday, "09:00", 30)
	require.NoError(t, store.Reserve(ctx, appt))

	got, err := store.GetByID(ctx, appt.ID)
	require.NoError(t, err)

	got.Status = StatusCompleted

	again, err := store.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, again.Status)
}

func TestMemoryStore_ListByDateSkipsCancelled(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	kept := newAppointment(uuid.New(), monday, "09:00", 30)
	dropped := newAppointment(uuid.New(), monday, "10:00", 30)
	require.NoError(t, store.Reserve(ctx, kept))
	require.NoError(t, store.Reserve(ctx, dropped))
	require.NoError(t, store.Cancel(ctx, dropped.ID))

	appts, err := store.ListByDate(ctx, monday)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, kept.ID, appts[0].ID)
}
