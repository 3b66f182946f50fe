package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
)

// FirmRepository provides data access methods for the firm ledger row.
// The engine manages a single firm; GetFirm returns it without needing an ID.
type FirmRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFirmRepository creates a new FirmRepository with the provided database connection.
func NewFirmRepository(db *sql.DB) *FirmRepository {
	return &FirmRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *FirmRepository) WithTx(tx *sql.Tx) *FirmRepository {
	return &FirmRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FirmRepository) getQuerier() interface {
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

// GetFirm retrieves the firm ledger row.
// Returns apperrors.ErrFirmNotFound if the firm has not been created yet.
func (r *FirmRepository) GetFirm(ctx context.Context) (model.Firm, error) {
	query := `
		SELECT id, capital, assets, cash, profit_loss, expenses, revenue,
		       liabilities, firm_name, created_at
		FROM firm
		ORDER BY created_at ASC
		LIMIT 1
	`

	var f model.Firm
	var capital, assets, cash, profitLoss, expenses, revenue, liabilities string
	var createdAtStr sql.NullString

	err := r.getQuerier().QueryRowContext(ctx, query).Scan(
		&f.ID,
		&capital,
		&assets,
		&cash,
		&profitLoss,
		&expenses,
		&revenue,
		&liabilities,
		&f.FirmName,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Firm{}, apperrors.ErrFirmNotFound
	}
	if err != nil {
		return model.Firm{}, fmt.Errorf("failed to query firm table: %w", err)
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&f.Capital, capital},
		{&f.Assets, assets},
		{&f.Cash, cash},
		{&f.ProfitLoss, profitLoss},
		{&f.Expenses, expenses},
		{&f.Revenue, revenue},
		{&f.Liabilities, liabilities},
	}
	for _, field := range fields {
		if *field.dst, err = ParseDecimal(field.src); err != nil {
			return model.Firm{}, err
		}
	}

	if createdAtStr.Valid {
		if f.CreatedAt, err = ParseTime(createdAtStr.String); err != nil {
			return model.Firm{}, err
		}
	}

	return f, nil
}

// InsertFirm creates the firm ledger row with all monetary columns at zero.
func (r *FirmRepository) InsertFirm(ctx context.Context, f *model.Firm) error {
	query := `
		INSERT INTO firm (id, capital, assets, cash, profit_loss, expenses,
		                  revenue, liabilities, firm_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		f.ID,
		f.Capital.String(),
		f.Assets.String(),
		f.Cash.String(),
		f.ProfitLoss.String(),
		f.Expenses.String(),
		f.Revenue.String(),
		f.Liabilities.String(),
		f.FirmName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert firm: %w", err)
	}
	return nil
}

// UpdateFirm rewrites every monetary column of the firm ledger row. Callers
// must have recomputed capital as assets + cash before persisting.
func (r *FirmRepository) UpdateFirm(ctx context.Context, f *model.Firm) error {
	query := `
		UPDATE firm SET
			capital = ?,
			assets = ?,
			cash = ?,
			profit_loss = ?,
			expenses = ?,
			revenue = ?,
			liabilities = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		f.Capital.String(),
		f.Assets.String(),
		f.Cash.String(),
		f.ProfitLoss.String(),
		f.Expenses.String(),
		f.Revenue.String(),
		f.Liabilities.String(),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update firm: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check firm update: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrFirmNotFound
	}
	return nil
}
