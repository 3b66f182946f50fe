package request

import "github.com/shopspring/decimal"

// WithdrawalRequest represents the request body for planning or executing a
// shareholder withdrawal.
type WithdrawalRequest struct {
	ShareholderID string          `json:"shareholderId"`
	Amount        decimal.Decimal `json:"amount"`
}
