package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinickit/dental-booking/internal/booking"
	"github.com/clinickit/dental-booking/internal/directory"
)

type RouterConfig struct {
	Orchestrator *booking.Orchestrator
	Directory    directory.Store
	PgPool       *pgxpool.Pool // nil when running on in-memory stores
	Redis        *redis.Client // nil when running with the local locker
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/bookings", createBookingHandler(cfg.Orchestrator))
	r.Get("/availability", availabilityHandler(cfg.Orchestrator))
	r.Delete("/appointments/{id}", cancelAppointmentHandler(cfg.Orchestrator))
	r.Get("/clinics/{id}/services", listServicesHandler(cfg.Directory))
	r.Post("/clinics/{id}/doctors/sync", syncDoctorsHandler(cfg.Orchestrator))

	return r
}
