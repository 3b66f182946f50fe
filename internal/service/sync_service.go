package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/ledger"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// dailyRefreshTask names the task_metadata row recording the last completed
// market refresh.
const dailyRefreshTask = "daily_refresh"

// Quote is one ticker's market snapshot as supplied by the market-data
// provider. DividendYield is a percentage.
type Quote struct {
	Price         decimal.Decimal
	DividendYield decimal.Decimal
}

// RefreshResult reports one refresh pass: which tickers were repriced and
// which known positions had no quote and kept their last price.
type RefreshResult struct {
	Updated []string  `json:"updated"`
	Stale   []string  `json:"stale"`
	RanAt   time.Time `json:"ranAt"`
}

// SyncService applies market quotes to the position set. A refresh takes the
// snapshot lock exclusively, so it sees and leaves a quiescent position set;
// transactions and withdrawals queue behind it rather than interleave.
type SyncService struct {
	db           *sql.DB
	gate         *Gate
	positionRepo *repository.PositionRepository
	taskRepo     *repository.TaskRepository
	firmService  *FirmService
	logger       zerolog.Logger
}

// NewSyncService creates a new SyncService with the provided dependencies.
func NewSyncService(
	db *sql.DB,
	gate *Gate,
	positionRepo *repository.PositionRepository,
	taskRepo *repository.TaskRepository,
	firmService *FirmService,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		db:           db,
		gate:         gate,
		positionRepo: positionRepo,
		taskRepo:     taskRepo,
		firmService:  firmService,
		logger:       logger.With().Str("component", "sync").Logger(),
	}
}

// Refresh applies the given quotes to every known position and recomputes the
// firm aggregates in one transaction. Positions without a quote keep their
// last price and are reported as stale, never fatal. Re-running with
// identical quotes changes nothing but the derived value fields, which land
// on the same numbers.
func (s *SyncService) Refresh(ctx context.Context, quotes map[string]Quote) (RefreshResult, error) {
	release, err := s.gate.acquireExclusive(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	positionRepo := s.positionRepo.WithTx(tx)
	positions, err := positionRepo.GetAllPositions(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	result := RefreshResult{RanAt: time.Now().UTC()}
	for _, p := range positions {
		quote, ok := quotes[p.Ticker]
		if !ok {
			result.Stale = append(result.Stale, p.Ticker)
			s.logger.Warn().Str("ticker", p.Ticker).Err(apperrors.ErrStalePrice).
				Msg("no quote for position, keeping last price")
			continue
		}

		ledger.RefreshPrice(&p, quote.Price, quote.DividendYield)
		if err := positionRepo.UpdatePosition(ctx, &p); err != nil {
			return RefreshResult{}, err
		}
		result.Updated = append(result.Updated, p.Ticker)
	}

	if _, err := s.firmService.RecomputeTx(ctx, tx); err != nil {
		return RefreshResult{}, err
	}
	if err := s.taskRepo.WithTx(tx).RecordRun(ctx, dailyRefreshTask, result.RanAt); err != nil {
		return RefreshResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Int("updated", len(result.Updated)).
		Int("stale", len(result.Stale)).
		Msg("market refresh complete")

	return result, nil
}

// RefreshDue reports whether a refresh has not yet completed today (UTC).
// The daily job consults this so restarts do not repeat a finished pass;
// callers can force past it.
func (s *SyncService) RefreshDue(ctx context.Context, now time.Time) (bool, error) {
	lastRun, err := s.taskRepo.GetLastRun(ctx, dailyRefreshTask)
	if err == apperrors.ErrTaskNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	y1, m1, d1 := lastRun.LastRun.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	return y1 != y2 || m1 != m2 || d1 != d2, nil
}
