package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the portfolio's holding in a single ticker.
// TotalValue, UnrealizedProfitLoss and DividendYieldCash are derived from the
// current price and are refreshed whenever the price changes; the cost-basis
// fields change only through buy/sell application.
type Position struct {
	ID                   string          `json:"id"`
	Ticker               string          `json:"ticker"`
	TotalShares          decimal.Decimal `json:"totalShares"`
	TotalInvested        decimal.Decimal `json:"totalInvested"`
	AveragePurchasePrice decimal.Decimal `json:"averagePurchasePrice"`
	CurrentPrice         decimal.Decimal `json:"currentPrice"`
	TotalValue           decimal.Decimal `json:"totalValue"`
	UnrealizedProfitLoss decimal.Decimal `json:"unrealizedProfitLoss"`
	RealizedProfitLoss   decimal.Decimal `json:"realizedProfitLoss"`
	DividendYield        decimal.Decimal `json:"dividendYield"`     // percent
	DividendYieldCash    decimal.Decimal `json:"dividendYieldCash"` // yield% x total value
	CreatedAt            time.Time       `json:"createdAt,omitempty"`
}
