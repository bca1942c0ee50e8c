package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore persists appointments in Postgres. The reserve-if-free atomicity
// is enforced by the engine itself via a partial unique index on
// (doctor_id, date, start_time) covering non-cancelled rows; a unique
// violation maps to ErrSlotUnavailable.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const uniqueViolation = "23505"

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var email, notes *string

	err := row.Scan(
		&a.ID,
		&a.ClinicID,
		&a.DoctorID,
		&a.PatientName,
		&a.PatientPhone,
		&email,
		&a.Service,
		&a.Date,
		&a.Time,
		&a.DurationMinutes,
		&notes,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	if email != nil {
		a.PatientEmail = *email
	}
	if notes != nil {
		a.Notes = *notes
	}
	return &a, nil
}

const appointmentColumns = `
	id, clinic_id, doctor_id, patient_name, patient_phone, patient_email,
	service, date, start_time, duration_minutes, notes, status, created_at
`

func (s *PgStore) ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_time
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (s *PgStore) ListByDate(ctx context.Context, date string) ([]Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date = $1 AND status <> 'cancelled'
		ORDER BY doctor_id, start_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (s *PgStore) Reserve(ctx context.Context, appt Appointment) error {
	var email, notes *string
	if appt.PatientEmail != "" {
		email = &appt.PatientEmail
	}
	if appt.Notes != "" {
		notes = &appt.Notes
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, clinic_id, doctor_id, patient_name, patient_phone, patient_email,
			service, date, start_time, duration_minutes, notes, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		appt.ID, appt.ClinicID, appt.DoctorID, appt.PatientName, appt.PatientPhone, email,
		appt.Service, appt.Date, appt.Time, appt.DurationMinutes, notes, appt.Status, appt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotUnavailable
		}
		return err
	}
	return nil
}

func (s *PgStore) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled'
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

var _ AppointmentStore = (*PgStore)(nil)
