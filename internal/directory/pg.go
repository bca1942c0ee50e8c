package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Helpers

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Integration,
		&c.NotifyEmail,
		&c.WhatsAppNumber,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var specialty *string

	err := row.Scan(
		&d.ID,
		&d.ClinicID,
		&d.Name,
		&specialty,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Specialty = specialty
	return &d, nil
}

// Interface methods

func (s *PgStore) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, integration, notify_email, whatsapp_number, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id)
	return scanClinic(row)
}

func (s *PgStore) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, clinic_id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (s *PgStore) ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) ([]Doctor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, clinic_id, name, specialty, created_at, updated_at
		FROM doctors
		WHERE clinic_id = $1
		ORDER BY name
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (s *PgStore) RulesForDoctor(ctx context.Context, doctorID uuid.UUID) ([]AvailabilityRule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doctor_id, day_of_week, start_time, end_time
		FROM availability_rules
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_time
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AvailabilityRule
	for rows.Next() {
		var r AvailabilityRule
		if err := rows.Scan(&r.DoctorID, &r.DayOfWeek, &r.StartTime, &r.EndTime); err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

func (s *PgStore) ServicesForClinic(ctx context.Context, clinicID uuid.UUID) ([]ServiceCatalogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT clinic_id, name, duration_minutes, price_cents
		FROM services
		WHERE clinic_id = $1
		ORDER BY name
	`, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ServiceCatalogEntry
	for rows.Next() {
		var e ServiceCatalogEntry
		if err := rows.Scan(&e.ClinicID, &e.Name, &e.DurationMinutes, &e.PriceCents); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	return result, rows.Err()
}

var _ Store = (*PgStore)(nil)
