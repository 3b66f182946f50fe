package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
)

// PositionRepository provides data access methods for the portfolio table:
// one row per held ticker, mutated by every transaction on that ticker and by
// each price refresh.
type PositionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a copy of the repository that runs all statements on the
// given transaction, so position updates commit atomically with the firm
// ledger and the transaction audit record.
func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PositionRepository) getQuerier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const positionColumns = `
	id, ticker, total_shares, total_invested, average_purchase_price,
	current_price, total_value, unrealized_profit_loss, realized_profit_loss,
	dividend_yield, dividend_yield_cash, created_at
`

// GetPosition retrieves the position for a ticker.
// Returns apperrors.ErrPositionNotFound if the portfolio has no row for it.
func (r *PositionRepository) GetPosition(ctx context.Context, ticker string) (model.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM portfolio WHERE ticker = ?`

	row := r.getQuerier().QueryRowContext(ctx, query, strings.ToUpper(ticker))
	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	return p, nil
}

// GetAllPositions retrieves every position, ordered by ticker for stable
// iteration during refresh and planning passes.
func (r *PositionRepository) GetAllPositions(ctx context.Context) ([]model.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM portfolio ORDER BY ticker ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return positions, nil
}

// InsertPosition inserts a new portfolio row.
func (r *PositionRepository) InsertPosition(ctx context.Context, p *model.Position) error {
	query := `
		INSERT INTO portfolio (
			id, ticker, total_shares, total_invested, average_purchase_price,
			current_price, total_value, unrealized_profit_loss,
			realized_profit_loss, dividend_yield, dividend_yield_cash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		strings.ToUpper(p.Ticker),
		p.TotalShares.String(),
		p.TotalInvested.String(),
		p.AveragePurchasePrice.String(),
		p.CurrentPrice.String(),
		p.TotalValue.String(),
		p.UnrealizedProfitLoss.String(),
		p.RealizedProfitLoss.String(),
		p.DividendYield.String(),
		p.DividendYieldCash.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

// UpdatePosition rewrites every mutable column of a position row.
func (r *PositionRepository) UpdatePosition(ctx context.Context, p *model.Position) error {
	query := `
		UPDATE portfolio SET
			total_shares = ?,
			total_invested = ?,
			average_purchase_price = ?,
			current_price = ?,
			total_value = ?,
			unrealized_profit_loss = ?,
			realized_profit_loss = ?,
			dividend_yield = ?,
			dividend_yield_cash = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.TotalShares.String(),
		p.TotalInvested.String(),
		p.AveragePurchasePrice.String(),
		p.CurrentPrice.String(),
		p.TotalValue.String(),
		p.UnrealizedProfitLoss.String(),
		p.RealizedProfitLoss.String(),
		p.DividendYield.String(),
		p.DividendYieldCash.String(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check position update: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPositionNotFound
	}
	return nil
}

// SumTotalValue returns the sum of total_value across all positions, the
// quantity the firm ledger's assets column must equal after every commit.
func (r *PositionRepository) SumTotalValue(ctx context.Context) (decimal.Decimal, error) {
	positions, err := r.GetAllPositions(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	// Summed in Go rather than SQL: the decimal columns are TEXT and SQLite
	// SUM would coerce them through floats.
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.TotalValue)
	}
	return total, nil
}

// scanPosition scans a portfolio row from either *sql.Row or *sql.Rows.
func scanPosition(row interface{ Scan(dest ...any) error }) (model.Position, error) {
	var p model.Position
	var shares, invested, avgPrice, curPrice, value, unrealized, realized, yield, yieldCash string
	var createdAtStr sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Ticker,
		&shares,
		&invested,
		&avgPrice,
		&curPrice,
		&value,
		&unrealized,
		&realized,
		&yield,
		&yieldCash,
		&createdAtStr,
	)
	if err != nil {
		return model.Position{}, err
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&p.TotalShares, shares},
		{&p.TotalInvested, invested},
		{&p.AveragePurchasePrice, avgPrice},
		{&p.CurrentPrice, curPrice},
		{&p.TotalValue, value},
		{&p.UnrealizedProfitLoss, unrealized},
		{&p.RealizedProfitLoss, realized},
		{&p.DividendYield, yield},
		{&p.DividendYieldCash, yieldCash},
	}
	for _, f := range fields {
		if *f.dst, err = ParseDecimal(f.src); err != nil {
			return model.Position{}, err
		}
	}

	if createdAtStr.Valid {
		if p.CreatedAt, err = ParseTime(createdAtStr.String); err != nil {
			return model.Position{}, err
		}
	}

	return p, nil
}
