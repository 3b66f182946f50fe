package request

import "github.com/shopspring/decimal"

// CreateFirmRequest represents the request body for creating the firm ledger.
type CreateFirmRequest struct {
	FirmName string `json:"firmName"`
}

// PostingRequest represents the request body for an expense, revenue or
// liability posting.
type PostingRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
