package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-backend/internal/api"
	"github.com/clinicore/clinic-backend/internal/auth"
	"github.com/clinicore/clinic-backend/internal/billing"
	"github.com/clinicore/clinic-backend/internal/config"
	"github.com/clinicore/clinic-backend/internal/db"
	"github.com/clinicore/clinic-backend/internal/inventory"
	"github.com/clinicore/clinic-backend/internal/patient"
	"github.com/clinicore/clinic-backend/internal/redisclient"
	"github.com/clinicore/clinic-backend/internal/schedule"
	"github.com/clinicore/clinic-backend/internal/staff"
)

const version = "1.0.0"

func main() {
	log := newLogger(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}
	log = newLogger(cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	locker := redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)

	staffRepo := staff.NewPgRepository(pgPool)
	staffSvc := staff.NewService(staffRepo, log)

	sessionStore := auth.NewStore(rdb, cfg.SessionTTL)
	authMgr := auth.NewManager(staffRepo, sessionStore, cfg.JWTSecret, cfg.SessionTTL, log)

	scheduleSvc := schedule.NewService(schedule.NewPgRepository(pgPool), locker, log)
	billingSvc := billing.NewService(billing.NewPgRepository(pgPool), log, cfg.InvoiceDueDays)
	inventorySvc := inventory.NewService(inventory.NewPgRepository(pgPool), log, cfg.ExpiryHorizon)
	patientSvc := patient.NewService(patient.NewPgRepository(pgPool), log)

	handler := api.NewRouter(api.RouterConfig{
		Schedule:  scheduleSvc,
		Billing:   billingSvc,
		Inventory: inventorySvc,
		Patients:  patientSvc,
		Staff:     staffSvc,
		Auth:      authMgr,
		PgPool:    pgPool,
		Redis:     rdb,
		Log:       log,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("api-server stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
