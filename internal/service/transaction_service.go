package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/ledger"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// TradeRequest describes one buy or sell to process.
type TradeRequest struct {
	Ticker        string
	Type          string
	Shares        decimal.Decimal
	PricePerShare decimal.Decimal
	Fees          decimal.Decimal
	DividendYield decimal.Decimal // percent; buys only, optional
	Notes         string
}

// TransactionService processes buys and sells: it applies the cost-basis
// arithmetic to the position, settles cash against the firm ledger, recomputes
// the firm aggregates and appends the audit record, all in one transaction
// under the ticker's mutation lock.
type TransactionService struct {
	db              *sql.DB
	gate            *Gate
	positionRepo    *repository.PositionRepository
	transactionRepo *repository.TransactionRepository
	firmService     *FirmService
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	db *sql.DB,
	gate *Gate,
	positionRepo *repository.PositionRepository,
	transactionRepo *repository.TransactionRepository,
	firmService *FirmService,
) *TransactionService {
	return &TransactionService{
		db:              db,
		gate:            gate,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
		firmService:     firmService,
	}
}

// Process validates and applies a single trade. On any failure nothing is
// persisted: position, firm ledger and audit trail move together or not at
// all.
func (s *TransactionService) Process(ctx context.Context, req TradeRequest) (model.Transaction, error) {
	if err := validateTrade(req); err != nil {
		return model.Transaction{}, err
	}
	ticker := strings.ToUpper(req.Ticker)

	releaseShared, err := s.gate.acquireShared(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	defer releaseShared()

	releaseTicker, err := s.gate.acquireTicker(ctx, ticker)
	if err != nil {
		return model.Transaction{}, err
	}
	defer releaseTicker()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var record model.Transaction
	switch req.Type {
	case model.TransactionBuy:
		record, err = s.processBuy(ctx, tx, ticker, req)
	case model.TransactionSell:
		record, err = s.processSell(ctx, tx, ticker, req)
	}
	if err != nil {
		return model.Transaction{}, err
	}

	if _, err := s.firmService.RecomputeTx(ctx, tx); err != nil {
		return model.Transaction{}, err
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, &record); err != nil {
		return model.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return record, nil
}

// processBuy debits cash for the total cost, then creates or grows the
// position. The cash check runs first so an unaffordable buy leaves no trace.
func (s *TransactionService) processBuy(ctx context.Context, tx *sql.Tx, ticker string, req TradeRequest) (model.Transaction, error) {
	positionRepo := s.positionRepo.WithTx(tx)

	total := req.Shares.Mul(req.PricePerShare).Round(2)
	cost := total.Add(req.Fees)

	if _, err := s.firmService.ApplyCashDeltaTx(ctx, tx, cost.Neg()); err != nil {
		return model.Transaction{}, err
	}

	position, err := positionRepo.GetPosition(ctx, ticker)
	created := false
	if err == apperrors.ErrPositionNotFound {
		position = model.Position{
			ID:     uuid.New().String(),
			Ticker: ticker,
		}
		created = true
	} else if err != nil {
		return model.Transaction{}, err
	}

	if req.DividendYield.IsPositive() {
		position.DividendYield = req.DividendYield
	}
	if err := ledger.ApplyBuy(&position, req.Shares, req.PricePerShare, req.Fees); err != nil {
		return model.Transaction{}, err
	}

	if created {
		err = positionRepo.InsertPosition(ctx, &position)
	} else {
		err = positionRepo.UpdatePosition(ctx, &position)
	}
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:            uuid.New().String(),
		Ticker:        ticker,
		Shares:        req.Shares,
		PricePerShare: req.PricePerShare,
		TotalValue:    total,
		Type:          model.TransactionBuy,
		Fees:          req.Fees,
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// processSell shrinks the position by the blended cost basis and credits the
// net proceeds to cash. The position must already exist; shorting is not
// supported.
func (s *TransactionService) processSell(ctx context.Context, tx *sql.Tx, ticker string, req TradeRequest) (model.Transaction, error) {
	positionRepo := s.positionRepo.WithTx(tx)

	position, err := positionRepo.GetPosition(ctx, ticker)
	if err != nil {
		return model.Transaction{}, err
	}

	result, err := ledger.ApplySell(&position, req.Shares, req.PricePerShare, req.Fees)
	if err != nil {
		return model.Transaction{}, err
	}

	if err := positionRepo.UpdatePosition(ctx, &position); err != nil {
		return model.Transaction{}, err
	}
	if _, err := s.firmService.ApplyCashDeltaTx(ctx, tx, result.Proceeds.Sub(req.Fees)); err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:                 uuid.New().String(),
		Ticker:             ticker,
		Shares:             req.Shares,
		PricePerShare:      req.PricePerShare,
		TotalValue:         result.Proceeds,
		Type:               model.TransactionSell,
		CostBasis:          result.CostBasis,
		RealizedProfitLoss: result.RealizedProfitLoss,
		Fees:               req.Fees,
		PortionOfPosition:  result.PortionOfPosition,
		Notes:              req.Notes,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// GetTransaction retrieves a single transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID)
}

// GetTransactions retrieves the audit trail, optionally filtered by ticker
// and time range, oldest first.
func (s *TransactionService) GetTransactions(ctx context.Context, filter repository.TransactionFilter) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, filter)
}

func validateTrade(req TradeRequest) error {
	if req.Ticker == "" {
		return apperrors.ErrMissingRequiredField
	}
	if req.Type != model.TransactionBuy && req.Type != model.TransactionSell {
		return apperrors.ErrMissingRequiredField
	}
	if err := ledger.ValidateQuantity(req.Shares); err != nil {
		return err
	}
	if !req.PricePerShare.IsPositive() {
		return apperrors.ErrNegativeAmount
	}
	if req.Fees.IsNegative() {
		return apperrors.ErrNegativeAmount
	}
	return nil
}
