package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a seedable in-memory Store used in tests and when the
// service runs without Postgres.
type MemoryStore struct {
	mu       sync.RWMutex
	clinics  map[uuid.UUID]Clinic
	doctors  map[uuid.UUID]Doctor
	rules    map[uuid.UUID][]AvailabilityRule
	services map[uuid.UUID][]ServiceCatalogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clinics:  make(map[uuid.UUID]Clinic),
		doctors:  make(map[uuid.UUID]Doctor),
		rules:    make(map[uuid.UUID][]AvailabilityRule),
		services: make(map[uuid.UUID][]ServiceCatalogEntry),
	}
}

func (s *MemoryStore) PutClinic(c Clinic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinics[c.ID] = c
}

func (s *MemoryStore) PutDoctor(d Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors[d.ID] = d
}

func (s *MemoryStore) PutRules(doctorID uuid.UUID, rules ...AvailabilityRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[doctorID] = append(s.rules[doctorID], rules...)
}

func (s *MemoryStore) PutServices(clinicID uuid.UUID, entries ...ServiceCatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[clinicID] = append(s.services[clinicID], entries...)
}

func (s *MemoryStore) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clinics[id]
	if !ok {
		return nil, ErrClinicNotFound
	}
	return &c, nil
}

func (s *MemoryStore) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (s *MemoryStore) ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Doctor
	for _, d := range s.doctors {
		if d.ClinicID == clinicID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *MemoryStore) RulesForDoctor(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := s.rules[doctorID]
	out := make([]AvailabilityRule, len(rules))
	copy(out, rules)
	return out, nil
}

func (s *MemoryStore) ServicesForClinic(ctx context.Context, clinicID uuid.UUID) ([]ServiceCatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.services[clinicID]
	out := make([]ServiceCatalogEntry, len(entries))
	copy(out, entries)
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
