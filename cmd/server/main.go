package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sonnyholman/novusedge/internal/api"
	"github.com/sonnyholman/novusedge/internal/config"
	"github.com/sonnyholman/novusedge/internal/database"
	"github.com/sonnyholman/novusedge/internal/logger"
	"github.com/sonnyholman/novusedge/internal/marketdata"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/service"
)

func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Open database connection (runs migrations)
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	shareholderRepo := repository.NewShareholderRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	firmRepo := repository.NewFirmRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Create services
	gate := service.NewGate(cfg.Engine.LockTimeout)
	firmService := service.NewFirmService(db, firmRepo, positionRepo)
	transactionService := service.NewTransactionService(db, gate, positionRepo, transactionRepo, firmService)
	shareholderService := service.NewShareholderService(db, shareholderRepo, firmService)
	withdrawalService := service.NewWithdrawalService(
		db, gate, cfg.Engine, shareholderRepo, positionRepo, transactionRepo, firmService, log,
	)
	syncService := service.NewSyncService(db, gate, positionRepo, taskRepo, firmService, log)
	refreshJob := service.NewRefreshJob(
		cfg.Engine.RefreshSchedule, marketdata.NewFinanceClient(), positionRepo, syncService, log,
	)

	// The firm ledger must exist before any transaction can settle.
	if _, err := firmService.EnsureFirm(context.Background(), cfg.Engine.FirmName); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firm ledger")
	}

	if err := refreshJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start refresh job")
	}
	defer refreshJob.Stop()

	// Create router
	router := api.NewRouter(db, positionRepo, api.Services{
		Shareholder: shareholderService,
		Transaction: transactionService,
		Withdrawal:  withdrawalService,
		Firm:        firmService,
		RefreshJob:  refreshJob,
	}, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
