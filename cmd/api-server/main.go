package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/api"
	"github.com/clinicware/appointment-engine/internal/config"
	"github.com/clinicware/appointment-engine/internal/delivery"
	"github.com/clinicware/appointment-engine/internal/lock"
	"github.com/clinicware/appointment-engine/internal/scheduling"
	csvstore "github.com/clinicware/appointment-engine/internal/store/csv"
	pgstore "github.com/clinicware/appointment-engine/internal/store/postgres"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	log := newLogger(cfg.Env)
	defer log.Sync()

	log.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store_backend", cfg.StoreBackend),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	var (
		slotRepo    scheduling.SlotRepository
		patientRepo scheduling.PatientRepository
		ledgerRepo  scheduling.LedgerRepository
		pgPool      *pgxpool.Pool
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = pgstore.Connect(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatal("postgres connection error", zap.Error(err))
		}
		defer pgPool.Close()
		slotRepo = pgstore.NewSlotStore(pgPool)
		patientRepo = pgstore.NewPatientStore(pgPool)
		ledgerRepo = pgstore.NewLedgerStore(pgPool)
		log.Info("connected to Postgres")
	default:
		slotRepo = csvstore.NewSlotStore(cfg.SlotsPath())
		patientRepo = csvstore.NewPatientStore(cfg.PatientsPath())
		ledgerRepo = csvstore.NewLedgerStore(cfg.LedgerPath())
		log.Info("using csv store", zap.String("data_dir", cfg.DataDir))
	}

	// Locking: Redis when configured, in-process otherwise.
	var rdb *redis.Client
	locker := lock.NewLocalLocker()
	if cfg.RedisAddr != "" {
		rdb, err = lock.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatal("redis connection error", zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("error closing redis", zap.Error(err))
			}
		}()
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL)
		log.Info("connected to Redis")
	}

	// Delivery: queue reminders through asynq when Redis is available.
	var deliverySvc scheduling.Delivery = delivery.NewLogDelivery(log)
	if cfg.RedisAddr != "" {
		qd := delivery.NewQueueDelivery(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		defer qd.Close()
		deliverySvc = qd
	}

	calendar := scheduling.NewCalendar(slotRepo)
	ledger := scheduling.NewLedger(ledgerRepo)
	availability := scheduling.NewAvailability(calendar, nil)
	bookings := scheduling.NewBookings(calendar, ledger, deliverySvc, locker, log, nil)
	patients := scheduling.NewPatients(patientRepo, locker, nil)

	router := api.NewRouter(api.RouterConfig{
		Availability: availability,
		Bookings:     bookings,
		Patients:     patients,
		Ledger:       ledger,
		PgPool:       pgPool,
		Redis:        rdb,
		Log:          log,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("logger init: " + err.Error())
	}
	return log
}
