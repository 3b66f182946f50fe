package model

import "github.com/shopspring/decimal"

// PlannedSale is one leg of a liquidation plan: sell Shares of Ticker at the
// position's current price as captured at planning time.
type PlannedSale struct {
	Ticker             string          `json:"ticker"`
	Shares             decimal.Decimal `json:"shares"`
	Price              decimal.Decimal `json:"price"`
	Proceeds           decimal.Decimal `json:"proceeds"`
	CostBasis          decimal.Decimal `json:"costBasis"`
	RealizedProfitLoss decimal.Decimal `json:"realizedProfitLoss"`
}

// LiquidationPlan is the transient result of planning a shareholder
// withdrawal. It is computed, executed, then discarded; only the resulting
// transactions and ledger state persist. An empty Sales slice means the
// requested amount is covered by firm cash.
type LiquidationPlan struct {
	ShareholderID   string          `json:"shareholderId"`
	RequestedAmount decimal.Decimal `json:"requestedAmount"`
	Sales           []PlannedSale   `json:"sales"`
	ProjectedTax    decimal.Decimal `json:"projectedTax"`
	ProjectedFee    decimal.Decimal `json:"projectedFee"`
	NetPayout       decimal.Decimal `json:"netPayout"`
}
