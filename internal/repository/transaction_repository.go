package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
)

// TransactionRepository provides data access methods for the transactions
// table. The table is append-only: this repository exposes inserts and reads,
// never updates or deletes.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() interface {
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

const transactionColumns = `
	id, ticker, shares, price_per_share, total_value, type, cost_basis,
	realized_profit_loss, fees, portion_of_position, notes, created_at
`

// InsertTransaction appends a transaction audit record.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, ticker, shares, price_per_share, total_value, type, cost_basis,
			realized_profit_loss, fees, portion_of_position, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var notes any
	if t.Notes != "" {
		notes = t.Notes
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		strings.ToUpper(t.Ticker),
		t.Shares.String(),
		t.PricePerShare.String(),
		t.TotalValue.String(),
		t.Type,
		t.CostBasis.String(),
		t.RealizedProfitLoss.String(),
		t.Fees.String(),
		t.PortionOfPosition.String(),
		notes,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a single transaction by its ID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID string) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	row := r.getQuerier().QueryRowContext(ctx, query, transactionID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to query transactions table: %w", err)
	}
	return t, nil
}

// TransactionFilter narrows GetTransactions. Zero values mean "no filter";
// the time range is inclusive on both ends.
type TransactionFilter struct {
	Ticker    string
	StartDate time.Time
	EndDate   time.Time
}

// GetTransactions retrieves transactions matching the filter, oldest first.
func (r *TransactionRepository) GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var conditions []string
	var args []any

	if filter.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, strings.ToUpper(filter.Ticker))
	}
	if !filter.StartDate.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.StartDate.UTC().Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.EndDate.UTC().Format(time.RFC3339))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transactions table results: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}

func scanTransaction(row interface{ Scan(dest ...any) error }) (model.Transaction, error) {
	var t model.Transaction
	var shares, price, value, costBasis, realized, fees, portion string
	var notes sql.NullString
	var createdAtStr string

	err := row.Scan(
		&t.ID,
		&t.Ticker,
		&shares,
		&price,
		&value,
		&t.Type,
		&costBasis,
		&realized,
		&fees,
		&portion,
		&notes,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&t.Shares, shares},
		{&t.PricePerShare, price},
		{&t.TotalValue, value},
		{&t.CostBasis, costBasis},
		{&t.RealizedProfitLoss, realized},
		{&t.Fees, fees},
		{&t.PortionOfPosition, portion},
	}
	for _, f := range fields {
		if *f.dst, err = ParseDecimal(f.src); err != nil {
			return model.Transaction{}, err
		}
	}

	if notes.Valid {
		t.Notes = notes.String
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Transaction{}, err
	}

	return t, nil
}
