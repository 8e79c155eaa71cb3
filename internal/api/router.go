package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/scheduling"
)

type RouterConfig struct {
	Availability *scheduling.Availability
	Bookings     *scheduling.Bookings
	Patients     *scheduling.Patients
	Ledger       *scheduling.Ledger
	PgPool       *pgxpool.Pool // nil for the csv backend
	Redis        *redis.Client // nil when locking is in-process
	Log          *zap.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/availability", availabilityHandler(cfg.Availability))
	r.Post("/bookings", createBookingHandler(cfg.Bookings))
	r.Put("/patients", upsertPatientHandler(cfg.Patients))
	r.Get("/patients", lookupPatientHandler(cfg.Patients))
	r.Get("/reports", reportHandler(cfg.Ledger))

	return r
}
