package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/config"
	delivery "github.com/FilipeAphrody/sentinel-access/internal/delivery/http"
	"github.com/FilipeAphrody/sentinel-access/internal/observability"
	"github.com/FilipeAphrody/sentinel-access/internal/repository"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"
	"github.com/FilipeAphrody/sentinel-access/pkg/security"

	_ "github.com/lib/pq" // Postgres driver
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	// 2. Initialize Infrastructure (Persistence)
	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open PostgreSQL")
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := repository.RunMigrations(context.Background(), db); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
	}

	// 3. Observability
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	// 4. Initialize Repositories
	userRepo := repository.NewPostgresUserRepo(db)
	accessLogRepo := repository.NewPostgresAccessLogRepo(db)

	var throttle *usecase.LoginThrottle
	if cfg.ThrottleEnabled() {
		rdb, err := repository.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("invalid REDIS_URL")
		}
		defer rdb.Close()
		throttle = usecase.NewLoginThrottle(repository.NewRedisAttemptRepo(rdb), cfg.LoginMaxFailures, cfg.LoginFailureWindow, log)
	}

	// 5. Initialize Business Logic (Usecases)
	codec, err := security.NewTokenCodec([]byte(cfg.JWTSecret), security.DefaultTokenTTL, time.Now)
	if err != nil {
		log.WithError(err).Fatal("failed to build token codec")
	}
	audit := usecase.NewAuditRecorder(accessLogRepo, time.Now)
	authUsecase := usecase.NewAuthUsecase(userRepo, codec, audit, log,
		usecase.WithThrottle(throttle),
		usecase.WithMetrics(metrics),
		usecase.WithDecoyCost(cfg.BcryptCost),
	)
	userUsecase := usecase.NewUserUsecase(userRepo, cfg.BcryptCost, time.Now)

	// 6. Register Delivery Handlers (Routes)
	e := delivery.NewServer(delivery.Dependencies{
		Auth:     authUsecase,
		Users:    userUsecase,
		Audit:    audit,
		Guard:    usecase.NewGuard(codec),
		Metrics:  metrics,
		Gatherer: reg,
		DB:       db,
		Log:      log,
	})

	// 7. Start Server with Graceful Shutdown
	go func() {
		log.WithField("port", cfg.Port).Info("starting Sentinel Access server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("shutting down the server due to error")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
}
