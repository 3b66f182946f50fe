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

// ShareholderRepository provides data access methods for the shareholders table.
type ShareholderRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewShareholderRepository creates a new ShareholderRepository with the provided database connection.
func NewShareholderRepository(db *sql.DB) *ShareholderRepository {
	return &ShareholderRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ShareholderRepository) WithTx(tx *sql.Tx) *ShareholderRepository {
	return &ShareholderRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *ShareholderRepository) getQuerier() interface {
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

const shareholderColumns = `id, name, ownership, investment, email, status, created_at`

// InsertShareholder creates a new shareholder row. Names are stored lowercase
// so uniqueness is case-insensitive.
func (r *ShareholderRepository) InsertShareholder(ctx context.Context, s *model.Shareholder) error {
	query := `
		INSERT INTO shareholders (id, name, ownership, investment, email, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		s.ID,
		strings.ToLower(s.Name),
		s.Ownership.String(),
		s.Investment.String(),
		s.Email,
		s.Status,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert shareholder: %w", err)
	}
	return nil
}

// GetShareholder retrieves a shareholder by ID.
func (r *ShareholderRepository) GetShareholder(ctx context.Context, shareholderID string) (model.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders WHERE id = ?`

	row := r.getQuerier().QueryRowContext(ctx, query, shareholderID)
	s, err := scanShareholder(row)
	if err == sql.ErrNoRows {
		return model.Shareholder{}, apperrors.ErrShareholderNotFound
	}
	if err != nil {
		return model.Shareholder{}, fmt.Errorf("failed to query shareholders table: %w", err)
	}
	return s, nil
}

// GetAllShareholders retrieves all shareholders ordered by creation time.
func (r *ShareholderRepository) GetAllShareholders(ctx context.Context) ([]model.Shareholder, error) {
	query := `SELECT ` + shareholderColumns + ` FROM shareholders ORDER BY created_at ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shareholders table: %w", err)
	}
	defer rows.Close()

	shareholders := []model.Shareholder{}
	for rows.Next() {
		s, err := scanShareholder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shareholders table results: %w", err)
		}
		shareholders = append(shareholders, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shareholders table: %w", err)
	}

	return shareholders, nil
}

// SumOwnership returns the total ownership percentage across all
// shareholders, used to enforce the 100% cap on onboarding and adjustments.
func (r *ShareholderRepository) SumOwnership(ctx context.Context) (decimal.Decimal, error) {
	shareholders, err := r.GetAllShareholders(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, s := range shareholders {
		total = total.Add(s.Ownership)
	}
	return total, nil
}

// ShareholderUpdate enumerates the fields a shareholder permits changing.
// Nil fields are left untouched. Ownership and investment move only through
// explicit capital events; id, name and created_at never change.
type ShareholderUpdate struct {
	Ownership  *decimal.Decimal
	Investment *decimal.Decimal
	Email      *string
	Status     *string
}

// UpdateShareholder applies a field-update set to a shareholder row.
func (r *ShareholderRepository) UpdateShareholder(ctx context.Context, shareholderID string, update ShareholderUpdate) error {
	var sets []string
	var args []any

	if update.Ownership != nil {
		sets = append(sets, "ownership = ?")
		args = append(args, update.Ownership.String())
	}
	if update.Investment != nil {
		sets = append(sets, "investment = ?")
		args = append(args, update.Investment.String())
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}

	if len(sets) == 0 {
		return apperrors.ErrMissingRequiredField
	}

	query := "UPDATE shareholders SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, shareholderID)

	result, err := r.getQuerier().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update shareholder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check shareholder update: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrShareholderNotFound
	}
	return nil
}

// DeleteShareholder removes a shareholder row. The service layer refuses the
// call while the shareholder still holds nonzero ownership.
func (r *ShareholderRepository) DeleteShareholder(ctx context.Context, shareholderID string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM shareholders WHERE id = ?`, shareholderID)
	if err != nil {
		return fmt.Errorf("failed to delete shareholder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check shareholder delete: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrShareholderNotFound
	}
	return nil
}

func scanShareholder(row interface{ Scan(dest ...any) error }) (model.Shareholder, error) {
	var s model.Shareholder
	var ownership, investment string
	var createdAtStr sql.NullString

	err := row.Scan(
		&s.ID,
		&s.Name,
		&ownership,
		&investment,
		&s.Email,
		&s.Status,
		&createdAtStr,
	)
	if err != nil {
		return model.Shareholder{}, err
	}

	if s.Ownership, err = ParseDecimal(ownership); err != nil {
		return model.Shareholder{}, err
	}
	if s.Investment, err = ParseDecimal(investment); err != nil {
		return model.Shareholder{}, err
	}
	if createdAtStr.Valid {
		if s.CreatedAt, err = ParseTime(createdAtStr.String); err != nil {
			return model.Shareholder{}, err
		}
	}

	return s, nil
}
