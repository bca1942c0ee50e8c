package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinickit/dental-booking/internal/booking"
	"github.com/clinickit/dental-booking/internal/config"
	"github.com/clinickit/dental-booking/internal/db"
	"github.com/clinickit/dental-booking/internal/directory"
	"github.com/clinickit/dental-booking/internal/notify"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required, the reminder worker reads the shared appointment store")
	}

	log.Printf("running reminder worker in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	messaging := notify.NewTwilioWhatsAppSender(notify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioWhatsAppFrom,
		Timeout:    cfg.NotifyTimeout,
	})
	var messagingSender notify.MessageSender
	if messaging != nil {
		messagingSender = messaging
	} else {
		log.Println("whatsapp channel unconfigured, reminders will be skipped")
	}
	dispatcher := notify.NewDispatcher(messagingSender, nil, cfg.NotifyTimeout)

	svc := booking.NewReminderService(
		booking.NewPgStore(pgPool),
		directory.NewPgStore(pgPool),
		dispatcher,
	)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *booking.ReminderService) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	start := time.Now()
	if err := svc.SendForDate(runCtx, tomorrow); err != nil {
		log.Printf("reminder run error: %v", err)
		return
	}
	log.Printf("reminder run for %s complete in %s", tomorrow, time.Since(start))
}
