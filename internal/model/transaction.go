package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction is an immutable audit record of a single buy or sell.
// CostBasis, RealizedProfitLoss and PortionOfPosition are populated on sells
// only. Rows are append-only: nothing updates or deletes them.
type Transaction struct {
	ID                 string          `json:"id"`
	Ticker             string          `json:"ticker"`
	Shares             decimal.Decimal `json:"shares"`
	PricePerShare      decimal.Decimal `json:"pricePerShare"`
	TotalValue         decimal.Decimal `json:"totalValue"`
	Type               string          `json:"type"`
	CostBasis          decimal.Decimal `json:"costBasis"`
	RealizedProfitLoss decimal.Decimal `json:"realizedProfitLoss"`
	Fees               decimal.Decimal `json:"fees"`
	PortionOfPosition  decimal.Decimal `json:"portionOfPosition"` // percent of the pre-trade holding
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt,omitempty"`
}
