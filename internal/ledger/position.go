// Package ledger implements the pure position arithmetic used by every
// mutating operation: weighted-average cost basis on buys, proportional
// cost-basis reduction on sells, and derived-value refresh on price updates.
// All quantities are exact decimals; nothing in this package touches storage.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
)

// SharePrecision is the quantization unit for share quantities: two decimal
// places. Any buy or sell requiring finer precision is rejected.
const SharePrecision = 2

var hundred = decimal.NewFromInt(100)

// ValidateQuantity rejects share quantities that are not strictly positive or
// that are finer than the quantization unit.
func ValidateQuantity(shares decimal.Decimal) error {
	if !shares.IsPositive() {
		return apperrors.ErrInvalidQuantity
	}
	if !shares.Equal(shares.Truncate(SharePrecision)) {
		return apperrors.ErrInvalidQuantity
	}
	return nil
}

// SellResult carries the audit quantities produced by applying (or
// projecting) a sell against a position.
type SellResult struct {
	CostBasis          decimal.Decimal
	RealizedProfitLoss decimal.Decimal
	PortionOfPosition  decimal.Decimal // percent of the pre-trade holding
	Proceeds           decimal.Decimal
}

// ApplyBuy applies a buy to the position in place.
//
// Invested capital grows by shares*price plus fees and the average purchase
// price is recomputed as the weighted mean over cumulative invested capital.
// This blended average is the cost-basis method for every downstream
// calculation; FIFO/LIFO lots are not modeled.
func ApplyBuy(p *model.Position, shares, price, fees decimal.Decimal) error {
	if err := ValidateQuantity(shares); err != nil {
		return err
	}

	cost := shares.Mul(price).Round(2).Add(fees)
	p.TotalShares = p.TotalShares.Add(shares)
	p.TotalInvested = p.TotalInvested.Add(cost)
	p.AveragePurchasePrice = p.TotalInvested.Div(p.TotalShares)
	p.CurrentPrice = price
	refreshDerived(p)
	return nil
}

// ApplySell applies a sell to the position in place and returns the audit
// quantities for the transaction record.
//
// Cost basis is shares sold times the blended average price; invested capital
// shrinks by exactly that cost basis, so the average price of the remainder
// is unchanged. Selling the entire holding zeroes the position.
func ApplySell(p *model.Position, shares, price, fees decimal.Decimal) (SellResult, error) {
	if err := ValidateQuantity(shares); err != nil {
		return SellResult{}, err
	}
	if shares.GreaterThan(p.TotalShares) {
		return SellResult{}, apperrors.ErrInsufficientShares
	}

	res := ProjectSell(*p, shares, price)
	res.RealizedProfitLoss = res.RealizedProfitLoss.Sub(fees)

	p.TotalShares = p.TotalShares.Sub(shares)
	if p.TotalShares.IsZero() {
		p.TotalInvested = decimal.Zero
		p.AveragePurchasePrice = decimal.Zero
	} else {
		p.TotalInvested = p.TotalInvested.Sub(res.CostBasis)
	}
	p.RealizedProfitLoss = p.RealizedProfitLoss.Add(res.RealizedProfitLoss)
	p.CurrentPrice = price
	refreshDerived(p)
	return res, nil
}

// ProjectSell computes the sell quantities without mutating the position.
// Fees are not part of the projection; withdrawal planning applies its own
// fee policy on top. The caller must have checked share availability.
func ProjectSell(p model.Position, shares, price decimal.Decimal) SellResult {
	costBasis := shares.Mul(p.AveragePurchasePrice).Round(2)
	realized := price.Sub(p.AveragePurchasePrice).Mul(shares).Round(2)

	portion := decimal.Zero
	if p.TotalShares.IsPositive() {
		portion = shares.Div(p.TotalShares).Mul(hundred).Round(2)
	}

	return SellResult{
		CostBasis:          costBasis,
		RealizedProfitLoss: realized,
		PortionOfPosition:  portion,
		Proceeds:           shares.Mul(price).Round(2),
	}
}

// RefreshPrice updates the current price and dividend yield and recomputes
// the derived fields. Shares, invested capital and realized P/L are never
// touched, which makes a refresh with identical quotes a no-op.
func RefreshPrice(p *model.Position, price, dividendYield decimal.Decimal) {
	p.CurrentPrice = price
	p.DividendYield = dividendYield
	refreshDerived(p)
}

// refreshDerived recomputes total value, unrealized P/L and the cash value of
// the dividend yield from the position's current price.
func refreshDerived(p *model.Position) {
	p.TotalValue = p.TotalShares.Mul(p.CurrentPrice).Round(2)
	p.UnrealizedProfitLoss = p.TotalValue.Sub(p.TotalInvested)
	p.DividendYieldCash = p.DividendYield.Div(hundred).Mul(p.TotalValue).Round(2)
}
