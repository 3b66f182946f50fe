package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sonnyholman/novusedge/internal/api/handlers"
	custommiddleware "github.com/sonnyholman/novusedge/internal/api/middleware"
	"github.com/sonnyholman/novusedge/internal/config"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/service"
)

// Services bundles the engine services the HTTP surface exposes.
type Services struct {
	Shareholder *service.ShareholderService
	Transaction *service.TransactionService
	Withdrawal  *service.WithdrawalService
	Firm        *service.FirmService
	RefreshJob  *service.RefreshJob
}

// NewRouter creates and configures the HTTP router
func NewRouter(db *sql.DB, positionRepo *repository.PositionRepository, services Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/shareholder", func(r chi.Router) {
			shareholderHandler := handlers.NewShareholderHandler(services.Shareholder)
			r.Get("/", shareholderHandler.AllShareholders)
			r.Post("/", shareholderHandler.Onboard)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", shareholderHandler.GetShareholder)
				r.Put("/status", shareholderHandler.SetStatus)
				r.Delete("/", shareholderHandler.DeleteShareholder)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(services.Transaction)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(positionRepo)
			r.Get("/", portfolioHandler.AllPositions)
			r.Get("/{ticker}", portfolioHandler.GetPosition)
		})

		r.Route("/firm", func(r chi.Router) {
			firmHandler := handlers.NewFirmHandler(services.Firm)
			r.Get("/", firmHandler.GetFirm)
			r.Post("/", firmHandler.CreateFirm)
			r.Post("/expense", firmHandler.PostExpense)
			r.Post("/revenue", firmHandler.PostRevenue)
			r.Post("/liability", firmHandler.PostLiability)
		})

		r.Route("/withdrawal", func(r chi.Router) {
			withdrawalHandler := handlers.NewWithdrawalHandler(services.Withdrawal)
			r.Post("/", withdrawalHandler.ExecuteWithdrawal)
			r.Post("/plan", withdrawalHandler.PlanWithdrawal)
		})

		r.Route("/sync", func(r chi.Router) {
			syncHandler := handlers.NewSyncHandler(services.RefreshJob)
			r.Post("/refresh", syncHandler.Refresh)
		})
	})

	return r
}
