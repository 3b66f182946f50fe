package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents the request body for processing a buy
// or sell. Decimal fields accept JSON numbers or strings; strings preserve
// exact precision.
type CreateTransactionRequest struct {
	Ticker        string          `json:"ticker"`
	Type          string          `json:"type"`
	Shares        decimal.Decimal `json:"shares"`
	PricePerShare decimal.Decimal `json:"pricePerShare"`
	Fees          decimal.Decimal `json:"fees"`
	DividendYield decimal.Decimal `json:"dividendYield"`
	Notes         string          `json:"notes"`
}
