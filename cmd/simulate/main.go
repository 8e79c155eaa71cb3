package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// The simulator hammers the booking API with concurrent availability
// queries and bookings against a small provider/date pool, so most
// booking attempts race each other. The interesting output is the
// success/conflict split: double-booked slots would show up as success
// counts exceeding the slot supply.

type SimConfig struct {
	APIBaseURL string
	Duration   time.Duration
	Workers    int
	BookRatio  float64
	QueryRatio float64
	Providers  []string
	Dates      []string
	Durations  []int
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Availability OperationMetrics
	Booking      OperationMetrics
	Report       OperationMetrics
}

type offering struct {
	ID              string `json:"offering_id"`
	Start           string `json:"start_time"`
	End             string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type Simulator struct {
	config  SimConfig
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d book=%.2f query=%.2f providers=%v",
		cfg.Duration, cfg.Workers, cfg.BookRatio, cfg.QueryRatio, cfg.Providers)

	sim := &Simulator{
		config: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	today := time.Now()
	var dates []string
	for i := 0; i < 7; i++ {
		dates = append(dates, today.AddDate(0, 0, i).Format("2006-01-02"))
	}

	cfg := SimConfig{
		APIBaseURL: getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:   getDuration("SIM_DURATION", 30*time.Second),
		Workers:    getInt("SIM_WORKERS", 10),
		BookRatio:  getFloat("SIM_BOOK_RATIO", 0.5),
		QueryRatio: getFloat("SIM_QUERY_RATIO", 0.4),
		Providers:  strings.Split(getEnv("SIM_PROVIDERS", "Dr. Sharma,Dr. Verma"), ","),
		Dates:      dates,
		Durations:  []int{30, 60, 90},
	}

	total := cfg.BookRatio + cfg.QueryRatio
	if total > 1 {
		cfg.BookRatio /= total
		cfg.QueryRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("SIM_PROVIDERS must list at least one provider")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			if r < s.config.BookRatio {
				s.doBooking(ctx, rng)
			} else if r < s.config.BookRatio+s.config.QueryRatio {
				s.doAvailability(ctx, rng)
			} else {
				s.doReport(ctx)
			}
		}
	}
}

// fetchOfferings queries availability and decodes the offering list.
func (s *Simulator) fetchOfferings(ctx context.Context, rng *rand.Rand) ([]offering, time.Duration, error) {
	provider := s.config.Providers[rng.Intn(len(s.config.Providers))]
	date := s.config.Dates[rng.Intn(len(s.config.Dates))]
	duration := s.config.Durations[rng.Intn(len(s.config.Durations))]

	q := url.Values{}
	q.Set("provider", provider)
	q.Set("date", date)
	q.Set("duration", strconv.Itoa(duration))

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "GET",
		s.config.APIBaseURL+"/availability?"+q.Encode(), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, latency, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, latency, fmt.Errorf("availability status %d", resp.StatusCode)
	}

	var offerings []offering
	if err := json.NewDecoder(resp.Body).Decode(&offerings); err != nil {
		return nil, latency, err
	}
	return offerings, latency, nil
}

func (s *Simulator) doAvailability(ctx context.Context, rng *rand.Rand) {
	_, latency, err := s.fetchOfferings(ctx, rng)
	s.metrics.Availability.Record(latency, err == nil, false)
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	offerings, _, err := s.fetchOfferings(ctx, rng)
	if err != nil || len(offerings) == 0 {
		return
	}

	chosen := offerings[rng.Intn(len(offerings))]

	reqBody := map[string]string{
		"offering_id":  chosen.ID,
		"patient_name": gofakeit.Name(),
		"email":        gofakeit.Email(),
	}
	body, _ := json.Marshal(reqBody)

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "POST",
		s.config.APIBaseURL+"/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusCreated {
			success = true
		} else if resp.StatusCode == http.StatusConflict {
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doReport(ctx context.Context) {
	from := s.config.Dates[0]
	to := s.config.Dates[len(s.config.Dates)-1]

	start := time.Now()
	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/reports?from=%s&to=%s", s.config.APIBaseURL, from, to), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Report.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Availability", &s.metrics.Availability)
	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Report", &s.metrics.Report)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
