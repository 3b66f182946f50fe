package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/config"
	"github.com/sonnyholman/novusedge/internal/ledger"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// WithdrawalService plans and executes shareholder capital withdrawals.
//
// Planning reads a consistent snapshot and produces a pro-rata liquidation
// plan without touching state. Execution re-validates every planned sell
// against current positions inside one transaction and rolls the whole
// withdrawal back on any mismatch, so a withdrawal either lands completely
// or leaves no trace.
type WithdrawalService struct {
	db              *sql.DB
	gate            *Gate
	engine          config.EngineConfig
	shareholderRepo *repository.ShareholderRepository
	positionRepo    *repository.PositionRepository
	transactionRepo *repository.TransactionRepository
	firmService     *FirmService
	logger          zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalService with the provided dependencies.
func NewWithdrawalService(
	db *sql.DB,
	gate *Gate,
	engine config.EngineConfig,
	shareholderRepo *repository.ShareholderRepository,
	positionRepo *repository.PositionRepository,
	transactionRepo *repository.TransactionRepository,
	firmService *FirmService,
	logger zerolog.Logger,
) *WithdrawalService {
	return &WithdrawalService{
		db:              db,
		gate:            gate,
		engine:          engine,
		shareholderRepo: shareholderRepo,
		positionRepo:    positionRepo,
		transactionRepo: transactionRepo,
		firmService:     firmService,
		logger:          logger.With().Str("component", "withdrawal").Logger(),
	}
}

// Plan computes the liquidation plan for a withdrawal without mutating state.
//
// The shareholder must be active and the requested amount within their
// entitlement (ownership% of firm capital). If firm cash covers the request
// the plan has no sales; otherwise positions are sold pro rata to their share
// of total assets, quantities floored to the quantization unit, with the
// rounding remainder assigned to the largest position so the cash shortfall
// is always covered.
func (s *WithdrawalService) Plan(ctx context.Context, shareholderID string, amount decimal.Decimal) (model.LiquidationPlan, error) {
	if !amount.IsPositive() {
		return model.LiquidationPlan{}, apperrors.ErrNegativeAmount
	}

	shareholder, err := s.shareholderRepo.GetShareholder(ctx, shareholderID)
	if err != nil {
		return model.LiquidationPlan{}, err
	}
	if shareholder.Status != model.ShareholderActive {
		return model.LiquidationPlan{}, apperrors.ErrShareholderInactive
	}

	firm, err := s.firmService.GetFirm(ctx)
	if err != nil {
		return model.LiquidationPlan{}, err
	}
	if amount.GreaterThan(shareholder.Entitlement(firm.Capital)) {
		return model.LiquidationPlan{}, apperrors.ErrOverEntitlement
	}

	plan := model.LiquidationPlan{
		ShareholderID:   shareholderID,
		RequestedAmount: amount,
	}

	if firm.Cash.LessThan(amount) {
		positions, err := s.positionRepo.GetAllPositions(ctx)
		if err != nil {
			return model.LiquidationPlan{}, err
		}
		plan.Sales, err = planSales(positions, amount.Sub(firm.Cash))
		if err != nil {
			return model.LiquidationPlan{}, err
		}
	}

	// Tax applies to positive projected gains only; projected losses are
	// neither taxed nor offset against gains.
	gains := decimal.Zero
	for _, sale := range plan.Sales {
		if sale.RealizedProfitLoss.IsPositive() {
			gains = gains.Add(sale.RealizedProfitLoss)
		}
	}
	plan.ProjectedTax = gains.Mul(s.engine.TaxRate).Round(2)
	plan.ProjectedFee = amount.Mul(s.engine.ManagementFeeRate).Round(2)
	plan.NetPayout = amount.Sub(plan.ProjectedTax).Sub(plan.ProjectedFee)

	return plan, nil
}

// planSales selects pro-rata sell quantities covering the cash shortfall.
// Each position contributes in proportion to its share of total assets value,
// floored to the quantization unit; any shortfall left by flooring is covered
// by extra units of the largest position.
func planSales(positions []model.Position, shortfall decimal.Decimal) ([]model.PlannedSale, error) {
	var held []model.Position
	totalValue := decimal.Zero
	for _, p := range positions {
		if p.TotalShares.IsPositive() && p.CurrentPrice.IsPositive() {
			held = append(held, p)
			totalValue = totalValue.Add(p.TotalValue)
		}
	}
	if totalValue.LessThan(shortfall) {
		return nil, apperrors.ErrInsufficientShares
	}

	largest := 0
	for i, p := range held {
		if p.TotalValue.GreaterThan(held[largest].TotalValue) {
			largest = i
		}
	}

	quantities := make([]decimal.Decimal, len(held))
	raised := decimal.Zero
	for i, p := range held {
		allocation := shortfall.Mul(p.TotalValue).Div(totalValue)
		quantities[i] = allocation.Div(p.CurrentPrice).RoundDown(ledger.SharePrecision)
		if quantities[i].GreaterThan(p.TotalShares) {
			quantities[i] = p.TotalShares
		}
		raised = raised.Add(quantities[i].Mul(p.CurrentPrice).Round(2))
	}

	// Flooring leaves the raise short of the shortfall; top up from the
	// largest position, one quantization unit of overshoot at most.
	if raised.LessThan(shortfall) {
		p := held[largest]
		extra := shortfall.Sub(raised).Div(p.CurrentPrice).RoundUp(ledger.SharePrecision)
		available := p.TotalShares.Sub(quantities[largest])
		if extra.GreaterThan(available) {
			extra = available
		}
		quantities[largest] = quantities[largest].Add(extra)
		raised = raised.Add(extra.Mul(p.CurrentPrice).Round(2))
	}
	// The largest position may have no slack left to absorb the rounding
	// losses of the others; a plan that cannot cover the shortfall is
	// rejected here rather than failing mid-execution on the payout.
	if raised.LessThan(shortfall) {
		return nil, apperrors.ErrInsufficientShares
	}

	var sales []model.PlannedSale
	for i, p := range held {
		if quantities[i].IsZero() {
			continue
		}
		projection := ledger.ProjectSell(p, quantities[i], p.CurrentPrice)
		sales = append(sales, model.PlannedSale{
			Ticker:             p.Ticker,
			Shares:             quantities[i],
			Price:              p.CurrentPrice,
			Proceeds:           projection.Proceeds,
			CostBasis:          projection.CostBasis,
			RealizedProfitLoss: projection.RealizedProfitLoss,
		})
	}
	return sales, nil
}

// Execute applies a liquidation plan: every planned sell, the net cash
// payout, and the shareholder's ownership/investment adjustment, in one
// transaction.
//
// Positions may have changed between planning and execution. Each sell is
// re-validated against current shares; a position no longer able to satisfy
// its planned quantity aborts the entire withdrawal with
// ErrPartialLiquidationFailure and nothing is committed. The caller retries
// with a fresh plan.
func (s *WithdrawalService) Execute(ctx context.Context, plan model.LiquidationPlan) (model.Firm, error) {
	releaseShared, err := s.gate.acquireShared(ctx)
	if err != nil {
		return model.Firm{}, err
	}
	defer releaseShared()

	tickers := make([]string, 0, len(plan.Sales))
	for _, sale := range plan.Sales {
		tickers = append(tickers, sale.Ticker)
	}
	releaseTickers, err := s.gate.acquireTickers(ctx, tickers)
	if err != nil {
		return model.Firm{}, err
	}
	defer releaseTickers()

	shareholder, err := s.shareholderRepo.GetShareholder(ctx, plan.ShareholderID)
	if err != nil {
		return model.Firm{}, err
	}
	if shareholder.Status != model.ShareholderActive {
		return model.Firm{}, apperrors.ErrShareholderInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Firm{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	firmRepo := s.firmService.firmRepo.WithTx(tx)
	firmBefore, err := firmRepo.GetFirm(ctx)
	if err != nil {
		return model.Firm{}, err
	}

	if err := s.executeSales(ctx, tx, plan); err != nil {
		return model.Firm{}, err
	}

	// Sales credited gross proceeds; only the net payout leaves the firm.
	// The withheld tax stays in cash backing the liability until remitted,
	// the management fee stays in cash as earned revenue.
	if _, err := s.firmService.ApplyCashDeltaTx(ctx, tx, plan.NetPayout.Neg()); err != nil {
		return model.Firm{}, err
	}

	firm, err := firmRepo.GetFirm(ctx)
	if err != nil {
		return model.Firm{}, err
	}
	firm.Liabilities = firm.Liabilities.Add(plan.ProjectedTax)
	firm.Revenue = firm.Revenue.Add(plan.ProjectedFee)
	if err := firmRepo.UpdateFirm(ctx, &firm); err != nil {
		return model.Firm{}, err
	}

	if err := s.adjustShareholder(ctx, tx, shareholder, plan.RequestedAmount, firmBefore.Capital); err != nil {
		return model.Firm{}, err
	}

	firm, err = s.firmService.RecomputeTx(ctx, tx)
	if err != nil {
		return model.Firm{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Firm{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Str("shareholder_id", plan.ShareholderID).
		Str("requested", plan.RequestedAmount.String()).
		Str("net_payout", plan.NetPayout.String()).
		Int("sales", len(plan.Sales)).
		Msg("withdrawal executed")

	return firm, nil
}

// executeSales applies every planned sell inside the given transaction,
// recording each as a synthetic sell in the audit trail.
func (s *WithdrawalService) executeSales(ctx context.Context, tx *sql.Tx, plan model.LiquidationPlan) error {
	positionRepo := s.positionRepo.WithTx(tx)
	transactionRepo := s.transactionRepo.WithTx(tx)

	for _, sale := range plan.Sales {
		position, err := positionRepo.GetPosition(ctx, sale.Ticker)
		if err != nil {
			return apperrors.ErrPartialLiquidationFailure
		}
		if sale.Shares.GreaterThan(position.TotalShares) {
			s.logger.Warn().
				Str("ticker", sale.Ticker).
				Str("planned", sale.Shares.String()).
				Str("held", position.TotalShares.String()).
				Msg("planned sell no longer satisfiable, aborting withdrawal")
			return apperrors.ErrPartialLiquidationFailure
		}

		result, err := ledger.ApplySell(&position, sale.Shares, sale.Price, decimal.Zero)
		if err != nil {
			return apperrors.ErrPartialLiquidationFailure
		}
		if err := positionRepo.UpdatePosition(ctx, &position); err != nil {
			return err
		}
		if _, err := s.firmService.ApplyCashDeltaTx(ctx, tx, result.Proceeds); err != nil {
			return err
		}

		record := model.Transaction{
			ID:                 uuid.New().String(),
			Ticker:             sale.Ticker,
			Shares:             sale.Shares,
			PricePerShare:      sale.Price,
			TotalValue:         result.Proceeds,
			Type:               model.TransactionSell,
			CostBasis:          result.CostBasis,
			RealizedProfitLoss: result.RealizedProfitLoss,
			Fees:               decimal.Zero,
			PortionOfPosition:  result.PortionOfPosition,
			Notes:              "withdrawal liquidation for shareholder " + plan.ShareholderID,
			CreatedAt:          time.Now().UTC(),
		}
		if err := transactionRepo.InsertTransaction(ctx, &record); err != nil {
			return err
		}
	}
	return nil
}

// adjustShareholder reduces the shareholder's investment by the withdrawn
// amount (floored at zero) and their ownership by the withdrawn share of
// pre-withdrawal capital.
func (s *WithdrawalService) adjustShareholder(ctx context.Context, tx *sql.Tx, shareholder model.Shareholder, amount, capitalBefore decimal.Decimal) error {
	investment := shareholder.Investment.Sub(amount)
	if investment.IsNegative() {
		investment = decimal.Zero
	}

	ownership := shareholder.Ownership
	if capitalBefore.IsPositive() {
		ownership = ownership.Sub(amount.Div(capitalBefore).Mul(hundred).Round(2))
		if ownership.IsNegative() {
			ownership = decimal.Zero
		}
	}

	return s.shareholderRepo.WithTx(tx).UpdateShareholder(ctx, shareholder.ID, repository.ShareholderUpdate{
		Ownership:  &ownership,
		Investment: &investment,
	})
}
