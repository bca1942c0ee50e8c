package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinickit/dental-booking/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.ApplySchema(context.Background(), pool); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedClinics(context.Background(), pool, 20, 5); err != nil {
		log.Fatalf("seed clinics: %v", err)
	}

	log.Println("seed complete")
}

var integrations = []string{"manual", "manual", "manual", "gesden", "klinicare"}

var dentalServices = []struct {
	name     string
	duration int
	price    int
}{
	{"Checkup", 30, 4500},
	{"Cleaning", 45, 7500},
	{"Filling", 60, 12000},
	{"Extraction", 45, 15000},
	{"Whitening", 90, 25000},
	{"Root Canal", 90, 45000},
	{"Orthodontic Consult", 30, 6000},
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, clinicCount, doctorsPerClinic int) error {
	log.Printf("seeding %d clinics with %d doctors each", clinicCount, doctorsPerClinic)

	specialties := []string{
		"General Dentistry",
		"Orthodontics",
		"Endodontics",
		"Periodontics",
		"Oral Surgery",
		"Pediatric Dentistry",
	}

	for i := 0; i < clinicCount; i++ {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		clinicID := uuid.New()
		name := gofakeit.Company() + " Dental"
		integration := integrations[gofakeit.Number(0, len(integrations)-1)]

		_, err = tx.Exec(ctx, `
			INSERT INTO clinics (id, name, integration, notify_email, whatsapp_number, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, clinicID, name, integration, gofakeit.Email(), gofakeit.Phone())
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}

		for _, svc := range dentalServices {
			_, err = tx.Exec(ctx, `
				INSERT INTO services (clinic_id, name, duration_minutes, price_cents)
				VALUES ($1, $2, $3, $4)
			`, clinicID, svc.name, svc.duration, svc.price)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		for j := 0; j < doctorsPerClinic; j++ {
			doctorID := uuid.New()
			specialty := specialties[gofakeit.Number(0, len(specialties)-1)]

			_, err = tx.Exec(ctx, `
				INSERT INTO doctors (id, clinic_id, name, specialty, created_at, updated_at)
				VALUES ($1, $2, $3, $4, now(), now())
			`, doctorID, clinicID, "Dr. "+gofakeit.Name(), specialty)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}

			if err := seedRules(ctx, tx, doctorID); err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("clinics seeded: %d/%d", i+1, clinicCount)
	}

	return nil
}

// seedRules gives a doctor a Monday-Friday schedule with a split
// morning/afternoon shape on some days.
func seedRules(ctx context.Context, tx pgx.Tx, doctorID uuid.UUID) error {
	for day := 1; day <= 5; day++ {
		split := gofakeit.Bool()

		if split {
			if _, err := tx.Exec(ctx, `
				INSERT INTO availability_rules (doctor_id, day_of_week, start_time, end_time)
				VALUES ($1, $2, '09:00', '13:00'), ($1, $2, '15:00', '18:00')
			`, doctorID, day); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `
				INSERT INTO availability_rules (doctor_id, day_of_week, start_time, end_time)
				VALUES ($1, $2, '09:00', '17:00')
			`, doctorID, day); err != nil {
				return err
			}
		}
	}
	return nil
}
