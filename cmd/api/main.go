package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio-backend/config"
	"github.com/cardfolio/cardfolio-backend/internal/auth"
	"github.com/cardfolio/cardfolio-backend/internal/bootstrap"
	cronjob "github.com/cardfolio/cardfolio-backend/internal/cards/cron"
	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
	"github.com/cardfolio/cardfolio-backend/internal/storage/postgres"
)

const serviceName = "cardfolio-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("open sql db", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		// The view cache is best-effort; the service runs without it.
		logger.Warn("redis unavailable, view cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	authClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		logger.Fatal("init firebase", zap.Error(err))
	}
	if authClient == nil {
		logger.Warn("no firebase credentials configured, running with header auth (dev only)")
	}

	sweeper := cronjob.NewSweeper(repository.NewDesignRepository(sqlDB), cfg.App.SweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("start orphan sweep", zap.Error(err))
	}
	defer sweeper.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PublicRPS:      cfg.Server.PublicRateRPS,
		PublicBurst:    cfg.Server.PublicRateBurst,
		DB:             pool,
		SQLDB:          sqlDB,
		Redis:          rdb,
		AuthClient:     authClient,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
