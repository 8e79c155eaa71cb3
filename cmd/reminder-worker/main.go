package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/clinicware/appointment-engine/internal/config"
	"github.com/clinicware/appointment-engine/internal/delivery"
)

// The reminder worker drains the delivery queue: reminders the api-server
// scheduled at their due instants, plus intake-forms requests. Transport
// past the Sender interface belongs to downstream mail/SMS services.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}
	if cfg.RedisAddr == "" {
		panic("REDIS_ADDR is required for the reminder worker")
	}

	log := newLogger(cfg.Env)
	defer log.Sync()

	log.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.String("redis_addr", cfg.RedisAddr),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		},
		asynq.Config{
			Concurrency: 10,
		},
	)

	mux := asynq.NewServeMux()
	delivery.NewHandler(log, nil).Register(mux)

	if err := srv.Start(mux); err != nil {
		log.Fatal("asynq server error", zap.Error(err))
	}

	<-rootCtx.Done()
	log.Info("shutting down reminder-worker")
	srv.Shutdown()
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
