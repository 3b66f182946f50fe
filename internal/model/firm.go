package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Firm holds the firm-level ledger. Capital is always assets + cash and is
// recomputed inside the same transaction as any mutation of either; it is
// never written independently.
type Firm struct {
	ID          string          `json:"id"`
	Capital     decimal.Decimal `json:"capital"`
	Assets      decimal.Decimal `json:"assets"`
	Cash        decimal.Decimal `json:"cash"`
	ProfitLoss  decimal.Decimal `json:"profitLoss"`
	Expenses    decimal.Decimal `json:"expenses"`
	Revenue     decimal.Decimal `json:"revenue"`
	Liabilities decimal.Decimal `json:"liabilities"`
	FirmName    string          `json:"firmName"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
