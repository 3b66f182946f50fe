package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// FirmService maintains the firm-level ledger. Assets, capital and profit/loss
// are derived aggregates: they are recomputed from the position set inside the
// same transaction as whatever mutation invalidated them, never adjusted
// incrementally.
type FirmService struct {
	db           *sql.DB
	firmRepo     *repository.FirmRepository
	positionRepo *repository.PositionRepository
}

// NewFirmService creates a new FirmService with the provided repository dependencies.
func NewFirmService(
	db *sql.DB,
	firmRepo *repository.FirmRepository,
	positionRepo *repository.PositionRepository,
) *FirmService {
	return &FirmService{
		db:           db,
		firmRepo:     firmRepo,
		positionRepo: positionRepo,
	}
}

// CreateFirm creates the firm ledger row with every monetary column at zero.
// Returns apperrors.ErrDuplicateEntry if a firm already exists; the engine
// manages exactly one.
func (s *FirmService) CreateFirm(ctx context.Context, firmName string) (model.Firm, error) {
	if firmName == "" {
		return model.Firm{}, apperrors.ErrMissingRequiredField
	}

	if _, err := s.firmRepo.GetFirm(ctx); err == nil {
		return model.Firm{}, apperrors.ErrDuplicateEntry
	} else if err != apperrors.ErrFirmNotFound {
		return model.Firm{}, err
	}

	firm := model.Firm{
		ID:       uuid.New().String(),
		FirmName: firmName,
	}
	if err := s.firmRepo.InsertFirm(ctx, &firm); err != nil {
		return model.Firm{}, err
	}
	return s.firmRepo.GetFirm(ctx)
}

// GetFirm retrieves the firm ledger row.
func (s *FirmService) GetFirm(ctx context.Context) (model.Firm, error) {
	return s.firmRepo.GetFirm(ctx)
}

// EnsureFirm returns the firm ledger row, creating it on first use.
func (s *FirmService) EnsureFirm(ctx context.Context, firmName string) (model.Firm, error) {
	firm, err := s.firmRepo.GetFirm(ctx)
	if err == apperrors.ErrFirmNotFound {
		return s.CreateFirm(ctx, firmName)
	}
	return firm, err
}

// RecomputeTx rebuilds the firm's derived aggregates from the position set
// inside the given transaction:
//
//	assets      = sum of position total values
//	capital     = assets + cash
//	profit_loss = revenue - expenses + sum of realized P/L
//
// Cash, expenses, revenue and liabilities are taken as already persisted;
// callers mutate those first, then recompute, all in one transaction.
func (s *FirmService) RecomputeTx(ctx context.Context, tx *sql.Tx) (model.Firm, error) {
	firmRepo := s.firmRepo.WithTx(tx)
	positionRepo := s.positionRepo.WithTx(tx)

	firm, err := firmRepo.GetFirm(ctx)
	if err != nil {
		return model.Firm{}, err
	}

	positions, err := positionRepo.GetAllPositions(ctx)
	if err != nil {
		return model.Firm{}, err
	}

	assets := decimal.Zero
	realized := decimal.Zero
	for _, p := range positions {
		assets = assets.Add(p.TotalValue)
		realized = realized.Add(p.RealizedProfitLoss)
	}

	firm.Assets = assets
	firm.Capital = assets.Add(firm.Cash)
	firm.ProfitLoss = firm.Revenue.Sub(firm.Expenses).Add(realized)

	if err := firmRepo.UpdateFirm(ctx, &firm); err != nil {
		return model.Firm{}, err
	}
	return firm, nil
}

// ApplyCashDeltaTx adjusts the firm's cash balance inside the given
// transaction. Returns apperrors.ErrInsufficientCash if the delta would take
// cash negative; the firm never overdraws.
func (s *FirmService) ApplyCashDeltaTx(ctx context.Context, tx *sql.Tx, delta decimal.Decimal) (model.Firm, error) {
	firmRepo := s.firmRepo.WithTx(tx)

	firm, err := firmRepo.GetFirm(ctx)
	if err != nil {
		return model.Firm{}, err
	}

	newCash := firm.Cash.Add(delta)
	if newCash.IsNegative() {
		return model.Firm{}, apperrors.ErrInsufficientCash
	}

	firm.Cash = newCash
	if err := firmRepo.UpdateFirm(ctx, &firm); err != nil {
		return model.Firm{}, err
	}
	return firm, nil
}

// PostExpense records an operating expense against the firm ledger.
func (s *FirmService) PostExpense(ctx context.Context, amount decimal.Decimal) (model.Firm, error) {
	return s.post(ctx, amount, func(f *model.Firm, amt decimal.Decimal) {
		f.Expenses = f.Expenses.Add(amt)
	})
}

// PostRevenue records revenue against the firm ledger.
func (s *FirmService) PostRevenue(ctx context.Context, amount decimal.Decimal) (model.Firm, error) {
	return s.post(ctx, amount, func(f *model.Firm, amt decimal.Decimal) {
		f.Revenue = f.Revenue.Add(amt)
	})
}

// PostLiability records a liability against the firm ledger.
func (s *FirmService) PostLiability(ctx context.Context, amount decimal.Decimal) (model.Firm, error) {
	return s.post(ctx, amount, func(f *model.Firm, amt decimal.Decimal) {
		f.Liabilities = f.Liabilities.Add(amt)
	})
}

// post applies a single-column posting and recomputes the derived aggregates
// in one transaction. Postings adjust their column only; cash moves through
// ApplyCashDeltaTx when an operation actually settles money.
func (s *FirmService) post(ctx context.Context, amount decimal.Decimal, apply func(*model.Firm, decimal.Decimal)) (model.Firm, error) {
	if amount.IsNegative() {
		return model.Firm{}, apperrors.ErrNegativeAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Firm{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	firmRepo := s.firmRepo.WithTx(tx)
	firm, err := firmRepo.GetFirm(ctx)
	if err != nil {
		return model.Firm{}, err
	}

	apply(&firm, amount.Round(2))
	if err := firmRepo.UpdateFirm(ctx, &firm); err != nil {
		return model.Firm{}, err
	}

	firm, err = s.RecomputeTx(ctx, tx)
	if err != nil {
		return model.Firm{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Firm{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return firm, nil
}
