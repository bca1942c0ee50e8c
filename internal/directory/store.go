package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrClinicNotFound = errors.New("clinic not found")
	ErrDoctorNotFound = errors.New("doctor not found")
)

// Store supplies the directory data the booking engine consumes: clinics,
// doctors, weekly availability rules and the per-clinic service catalog.
// The engine never writes through this interface.
type Store interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Doctor, error)

	// RulesForDoctor returns the doctor's availability rules for every
	// weekday. An unknown doctor yields an empty slice, not an error.
	RulesForDoctor(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityRule, error)

	ServicesForClinic(ctx context.Context, clinicID uuid.UUID) ([]ServiceCatalogEntry, error)
}
