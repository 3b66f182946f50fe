package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/config"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/service"
)

// TestEngineConfig returns the engine policy used across service tests:
// 25% tax, 1% management fee, generous lock timeout.
func TestEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		FirmName:          "test firm",
		TaxRate:           decimal.RequireFromString("0.25"),
		ManagementFeeRate: decimal.RequireFromString("0.01"),
		LockTimeout:       5 * time.Second,
	}
}

// Engine bundles the fully wired service layer over one test database.
type Engine struct {
	Gate        *service.Gate
	Firm        *service.FirmService
	Transaction *service.TransactionService
	Shareholder *service.ShareholderService
	Withdrawal  *service.WithdrawalService
	Sync        *service.SyncService

	ShareholderRepo *repository.ShareholderRepository
	PositionRepo    *repository.PositionRepository
	TransactionRepo *repository.TransactionRepository
	FirmRepo        *repository.FirmRepository
	TaskRepo        *repository.TaskRepository
}

// NewTestEngine wires the complete service layer against the given test
// database, the same way cmd/server does in production.
func NewTestEngine(t *testing.T, db *sql.DB) *Engine {
	t.Helper()

	log := zerolog.Nop()
	engineCfg := TestEngineConfig()

	shareholderRepo := repository.NewShareholderRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	firmRepo := repository.NewFirmRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	gate := service.NewGate(engineCfg.LockTimeout)
	firmService := service.NewFirmService(db, firmRepo, positionRepo)

	return &Engine{
		Gate: gate,
		Firm: firmService,
		Transaction: service.NewTransactionService(
			db, gate, positionRepo, transactionRepo, firmService,
		),
		Shareholder: service.NewShareholderService(db, shareholderRepo, firmService),
		Withdrawal: service.NewWithdrawalService(
			db, gate, engineCfg, shareholderRepo, positionRepo, transactionRepo, firmService, log,
		),
		Sync: service.NewSyncService(db, gate, positionRepo, taskRepo, firmService, log),

		ShareholderRepo: shareholderRepo,
		PositionRepo:    positionRepo,
		TransactionRepo: transactionRepo,
		FirmRepo:        firmRepo,
		TaskRepo:        taskRepo,
	}
}

// AssertRowCount verifies the number of rows in a table.
func AssertRowCount(t *testing.T, db *sql.DB, table string, want int) {
	t.Helper()

	var got int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	if got != want {
		t.Errorf("table %s: got %d rows, want %d", table, got, want)
	}
}
