// @title Kiosco escolar - Caja API
// @version 1.0
// @description Apertura, movimientos, conciliación y cierre de la caja de los kioscos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/router"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in development, JSON in production
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid TIMEZONE")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Closure reports run on the worker pool; handlers are wired here so the
	// pool sees the same infrastructure as the HTTP layer.
	smtpCB := worker.NewSMTPBreaker()
	cierreWorker := worker.NewCierreWorker(
		repository.NewCajaRepository(db),
		infra.NewMailer(cfg),
		smtpCB,
		cfg.PDFStoragePath,
		cfg.CajaReporteEmail,
		loc,
	)
	pool := worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.JobHandler{
		worker.QueueCierreCaja: cierreWorker,
	})
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Queue:  rdb,
		CB:     smtpCB,
		Queues: []string{worker.QueueCierreCaja},
	})

	r := router.New(cfg, db, rdb, smtpCB, loc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("kiosco caja backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	pool.Wait()
	_ = rdb.Close()
	log.Info().Msg("server exited")
}
