package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/config"
	"github.com/clinicware/appointment-engine/internal/scheduling"
	csvstore "github.com/clinicware/appointment-engine/internal/store/csv"
	pgstore "github.com/clinicware/appointment-engine/internal/store/postgres"
)

// provider is one seeded schedule owner: a location and the weekdays they
// practice (time.Weekday values).
type provider struct {
	name     string
	location string
	weekdays map[time.Weekday]bool
}

type slotWriter interface {
	WriteAll(ctx context.Context, slots []scheduling.Slot) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		panic("logger init: " + err.Error())
	}
	defer log.Sync()

	log.Info("seed starting",
		zap.String("store_backend", cfg.StoreBackend),
		zap.Int("schedule_days", cfg.ScheduleDays),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var (
		slots    slotWriter
		patients scheduling.PatientRepository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := pgstore.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatal("connect postgres", zap.Error(err))
		}
		defer pool.Close()
		slots = pgstore.NewSlotStore(pool)
		patients = pgstore.NewPatientStore(pool)
	default:
		slots = csvstore.NewSlotStore(cfg.SlotsPath())
		patients = csvstore.NewPatientStore(cfg.PatientsPath())
	}

	gofakeit.Seed(time.Now().UnixNano())

	providers := seedProviders(getInt("SEED_EXTRA_PROVIDERS", 0))
	grid := buildSchedule(providers, time.Now(), cfg.ScheduleDays)
	if err := slots.WriteAll(ctx, grid); err != nil {
		log.Fatal("write schedule", zap.Error(err))
	}
	log.Info("schedule generated",
		zap.Int("providers", len(providers)),
		zap.Int("slots", len(grid)),
	)

	count := getInt("SEED_PATIENTS", 50)
	if err := seedPatients(ctx, patients, count); err != nil {
		log.Fatal("seed patients", zap.Error(err))
	}
	log.Info("patients seeded", zap.Int("count", count))

	log.Info("seed complete")
}

// seedProviders returns the two clinic defaults plus any number of
// generated extras.
func seedProviders(extra int) []provider {
	providers := []provider{
		{
			name:     "Dr. Sharma",
			location: "Main Clinic",
			weekdays: weekdaySet(time.Monday, time.Wednesday, time.Friday),
		},
		{
			name:     "Dr. Verma",
			location: "City Hospital",
			weekdays: weekdaySet(time.Tuesday, time.Thursday),
		},
	}

	locations := []string{"Main Clinic", "City Hospital", "Westside Practice", "Northgate Medical"}
	for i := 0; i < extra; i++ {
		days := weekdaySet()
		for d := time.Monday; d <= time.Friday; d++ {
			if gofakeit.Bool() {
				days[d] = true
			}
		}
		if len(days) == 0 {
			days[time.Monday] = true
		}
		providers = append(providers, provider{
			name:     "Dr. " + gofakeit.LastName(),
			location: locations[gofakeit.Number(0, len(locations)-1)],
			weekdays: days,
		})
	}
	return providers
}

// buildSchedule lays out the fixed grid: every working day, 09:00 to
// 17:00 in 30-minute slots, all free.
func buildSchedule(providers []provider, start time.Time, days int) []scheduling.Slot {
	var grid []scheduling.Slot
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(scheduling.DateLayout)

		for _, p := range providers {
			if !p.weekdays[day.Weekday()] {
				continue
			}
			for hour := 9; hour < 17; hour++ {
				for _, minute := range []int{0, 30} {
					slotStart := fmt.Sprintf("%02d:%02d", hour, minute)
					var slotEnd string
					if minute == 0 {
						slotEnd = fmt.Sprintf("%02d:30", hour)
					} else {
						slotEnd = fmt.Sprintf("%02d:00", hour+1)
					}
					grid = append(grid, scheduling.Slot{
						Provider: p.name,
						Location: p.location,
						Date:     date,
						Start:    slotStart,
						End:      slotEnd,
						Booked:   false,
					})
				}
			}
		}
	}
	return grid
}

func seedPatients(ctx context.Context, repo scheduling.PatientRepository, count int) error {
	carriers := []string{"Aetna", "Cigna", "United Healthcare", "Blue Cross", "Humana"}

	for i := 0; i < count; i++ {
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		p := scheduling.Patient{
			FirstName:        gofakeit.FirstName(),
			LastName:         gofakeit.LastName(),
			DOB:              dob.Format(scheduling.DateLayout),
			Email:            gofakeit.Email(),
			Phone:            gofakeit.Phone(),
			InsuranceCarrier: carriers[gofakeit.Number(0, len(carriers)-1)],
			MemberID:         gofakeit.UUID(),
			GroupID:          strconv.Itoa(gofakeit.Number(10000, 99999)),
			CreatedAt:        time.Now().UTC(),
		}
		if err := repo.Put(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func weekdaySet(days ...time.Weekday) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
