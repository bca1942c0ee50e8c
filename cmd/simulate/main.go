// Command simulate drives concurrent booking contention against a running
// api-server: N workers all request the same doctor/date/time, and exactly
// one is expected to win while the rest get a conflict. It exists to
// exercise the reservation engine's atomic reserve under real concurrency.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

type simConfig struct {
	BaseURL    string
	ClinicID   string
	DoctorID   string
	Service    string
	Date       string
	Time       string
	Duration   int
	Contenders int
	Rounds     int
}

type bookingPayload struct {
	ClinicID        string `json:"clinic_id"`
	DoctorID        string `json:"doctor_id"`
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	PatientEmail    string `json:"patient_email,omitempty"`
	Service         string `json:"service"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type roundMetrics struct {
	created   int64
	conflicts int64
	errors    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *roundMetrics) record(latency time.Duration, status int) {
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.created, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflicts, 1)
	default:
		atomic.AddInt64(&m.errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *roundMetrics) stats() (avg, p95, max time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}

	avg = sum / time.Duration(len(sorted))
	p95Idx := len(sorted) * 95 / 100
	if p95Idx >= len(sorted) {
		p95Idx = len(sorted) - 1
	}
	return avg, sorted[p95Idx], sorted[len(sorted)-1]
}

func main() {
	log.SetFlags(log.LstdFlags)

	cfg := simConfig{}
	flag.StringVar(&cfg.BaseURL, "base-url", envOr("API_BASE_URL", "http://localhost:8080"), "api-server base URL")
	flag.StringVar(&cfg.ClinicID, "clinic", "", "clinic UUID (required)")
	flag.StringVar(&cfg.DoctorID, "doctor", "", "doctor UUID (required)")
	flag.StringVar(&cfg.Service, "service", "Checkup", "service name")
	flag.StringVar(&cfg.Date, "date", "", "target date YYYY-MM-DD (required)")
	flag.StringVar(&cfg.Time, "time", "09:00", "contested slot start HH:MM")
	flag.IntVar(&cfg.Duration, "duration", 30, "service duration in minutes")
	flag.IntVar(&cfg.Contenders, "contenders", 25, "concurrent requests per round")
	flag.IntVar(&cfg.Rounds, "rounds", 1, "number of contention rounds")
	flag.Parse()

	if cfg.ClinicID == "" || cfg.DoctorID == "" || cfg.Date == "" {
		flag.Usage()
		os.Exit(2)
	}

	gofakeit.Seed(time.Now().UnixNano())
	client := &http.Client{Timeout: 15 * time.Second}

	failed := false
	for round := 1; round <= cfg.Rounds; round++ {
		if !runRound(client, cfg, round) {
			failed = true
		}
		// Next round contests a fresh slot; the previous one is taken now.
		next, err := stepClock(cfg.Time, cfg.Duration)
		if err != nil {
			log.Fatalf("invalid -time value: %v", err)
		}
		cfg.Time = next
	}
	if failed {
		os.Exit(1)
	}
}

func runRound(client *http.Client, cfg simConfig, round int) bool {
	log.Printf("round %d: %d contenders for %s %s", round, cfg.Contenders, cfg.Date, cfg.Time)

	metrics := &roundMetrics{}
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := 0; i < cfg.Contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			payload := bookingPayload{
				ClinicID:        cfg.ClinicID,
				DoctorID:        cfg.DoctorID,
				PatientName:     gofakeit.Name(),
				PatientPhone:    gofakeit.Phone(),
				Service:         cfg.Service,
				Date:            cfg.Date,
				Time:            cfg.Time,
				DurationMinutes: cfg.Duration,
			}
			body, _ := json.Marshal(payload)

			<-start
			began := time.Now()
			status, err := postBooking(client, cfg.BaseURL, body)
			if err != nil {
				log.Printf("request error: %v", err)
				metrics.record(time.Since(began), 0)
				return
			}
			metrics.record(time.Since(began), status)
		}()
	}

	close(start)
	wg.Wait()

	avg, p95, max := metrics.stats()
	log.Printf("round %d: created=%d conflicts=%d errors=%d avg=%s p95=%s max=%s",
		round, metrics.created, metrics.conflicts, metrics.errors, avg, p95, max)

	if metrics.created != 1 {
		log.Printf("round %d: FAIL expected exactly 1 created booking, got %d", round, metrics.created)
		return false
	}
	log.Printf("round %d: OK exactly one contender won the slot", round)
	return true
}

func postBooking(client *http.Client, baseURL string, body []byte) (int, error) {
	resp, err := client.Post(fmt.Sprintf("%s/bookings", baseURL), "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func stepClock(clock string, minutes int) (string, error) {
	var h, m int
	if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
		return "", err
	}
	total := (h*60 + m + minutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
