package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shareholder status values.
const (
	ShareholderActive   = "active"
	ShareholderInactive = "inactive"
)

// Shareholder represents one owner of the firm. Ownership is a percentage
// (0 < ownership <= 100) and the sum across all shareholders never exceeds 100.
type Shareholder struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Ownership  decimal.Decimal `json:"ownership"`
	Investment decimal.Decimal `json:"investment"`
	Email      string          `json:"email"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt,omitempty"`
}

// Entitlement returns the ceiling on this shareholder's withdrawable value:
// ownership% of the given firm capital.
func (s Shareholder) Entitlement(capital decimal.Decimal) decimal.Decimal {
	return s.Ownership.Div(decimal.NewFromInt(100)).Mul(capital).Round(2)
}
