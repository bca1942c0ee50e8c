package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/clinickit/dental-booking/internal/api"
	"github.com/clinickit/dental-booking/internal/booking"
	"github.com/clinickit/dental-booking/internal/config"
	"github.com/clinickit/dental-booking/internal/db"
	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
	redisclient "github.com/clinickit/dental-booking/internal/redis"
)

const version = "0.3.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres is optional: without a DSN the service runs on in-memory
	// stores, which is fine for a single instance.
	var (
		pgPool    *pgxpool.Pool
		dir       directory.Store
		apptStore booking.AppointmentStore
	)
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		defer pgPool.Close()

		if err := db.ApplySchema(rootCtx, pgPool); err != nil {
			log.Fatalf("schema error: %v", err)
		}

		dir = directory.NewPgStore(pgPool)
		apptStore = booking.NewPgStore(pgPool)
		log.Println("connected to Postgres")
	} else {
		dir = directory.NewMemoryStore()
		apptStore = booking.NewMemoryStore()
		log.Println("POSTGRES_DSN not set, using in-memory stores")
	}

	// Redis is optional in the same way: a single instance can serialize
	// bookings with the in-process locker.
	var (
		rdb    *redis.Client
		locker redisclient.Locker
	)
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		}()
		locker = redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
		log.Println("connected to Redis")
	} else {
		locker = redisclient.NewLocalLocker()
		log.Println("REDIS_ADDR not set, using in-process booking lock")
	}

	messaging := notify.NewTwilioWhatsAppSender(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioWhatsAppFrom,
		Timeout:    cfg.NotifyTimeout,
	})
	if messaging == nil {
		log.Println("whatsapp channel unconfigured, booking confirmations will skip it")
	}

	email := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	})
	if email == nil {
		log.Println("email channel unconfigured, booking confirmations will skip it")
	}

	// Interface-typed nils would defeat the dispatcher's nil checks.
	var messagingSender notify.MessageSender
	if messaging != nil {
		messagingSender = messaging
	}
	var emailSender notify.EmailSender
	if email != nil {
		emailSender = email
	}
	dispatcher := notify.NewDispatcher(messagingSender, emailSender, cfg.NotifyTimeout)

	inHouse := booking.NewInHouseAdapter(dir, apptStore, locker)
	adapters := booking.NewAdapterSet(inHouse)
	orchestrator := booking.NewOrchestrator(dir, adapters, dispatcher)

	router := api.NewRouter(api.RouterConfig{
		Orchestrator: orchestrator,
		Directory:    dir,
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
