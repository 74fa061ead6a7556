// Command seed applies the schema and creates the initial admin account.
// It is safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/FilipeAphrody/sentinel-access/internal/config"
	"github.com/FilipeAphrody/sentinel-access/internal/observability"
	"github.com/FilipeAphrody/sentinel-access/internal/repository"
	"github.com/FilipeAphrody/sentinel-access/internal/usecase"

	_ "github.com/lib/pq" // Postgres driver
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open PostgreSQL")
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	users := usecase.NewUserUsecase(repository.NewPostgresUserRepo(db), cfg.BcryptCost, time.Now)
	created, err := users.EnsureAdmin(ctx, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		log.WithError(err).Fatal("failed to seed admin")
	}

	entry := log.WithField("email", cfg.SeedAdminEmail)
	if created {
		entry.Info("admin user created")
		return
	}
	entry.Info("admin user already exists")
}
