package booking

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps appointments in process memory, keyed by
// (doctorID, date). Reserve re-checks for an interval collision while
// holding the store lock, so the uniqueness invariant holds without any
// external coordination. Used in tests and DB-less deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	byKey  map[string][]uuid.UUID
	byID   map[uuid.UUID]*Appointment
	byDate map[string][]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byKey:  make(map[string][]uuid.UUID),
		byID:   make(map[uuid.UUID]*Appointment),
		byDate: make(map[string][]uuid.UUID),
	}
}

func doctorDateKey(doctorID uuid.UUID, date string) string {
	return fmt.Sprintf("%s|%s", doctorID, date)
}

func (s *MemoryStore) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byKey[doctorDateKey(doctorID, date)]
	out := make([]Appointment, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Appointment
	for _, id := range s.byDate[date] {
		a := s.byID[id]
		if a.Status == StatusCancelled {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) Reserve(ctx context.Context, appt Appointment) error {
	requested, err := parseClock(appt.Time)
	if err != nil {
		return err
	}
	candidate := interval{start: requested, end: requested + appt.DurationMinutes}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := doctorDateKey(appt.DoctorID, appt.Date)
	for _, id := range s.byKey[key] {
		existing := s.byID[id]
		if existing.Status == StatusCancelled {
			continue
		}
		start, err := parseClock(existing.Time)
		if err != nil {
			return err
		}
		if candidate.overlaps(interval{start: start, end: start + existing.DurationMinutes}) {
			return ErrSlotUnavailable
		}
	}

	cp := appt
	s.byID[appt.ID] = &cp
	s.byKey[key] = append(s.byKey[key], appt.ID)
	s.byDate[appt.Date] = append(s.byDate[appt.Date], appt.ID)
	return nil
}

func (s *MemoryStore) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Status = StatusCancelled
	return nil
}

var _ AppointmentStore = (*MemoryStore)(nil)
