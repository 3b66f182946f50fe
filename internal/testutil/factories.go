package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/model"
)

// MakeID generates a unique ID for test entities.
func MakeID() string {
	return uuid.New().String()
}

// ShareholderBuilder provides a fluent interface for creating test shareholders.
//
// Example usage:
//
//	shareholder := testutil.NewShareholder().
//	    WithOwnership("40").
//	    WithInvestment("10000").
//	    Build(t, db)
type ShareholderBuilder struct {
	ID         string
	Name       string
	Ownership  string
	Investment string
	Email      string
	Status     string
}

// NewShareholder creates a ShareholderBuilder with sensible defaults.
func NewShareholder() *ShareholderBuilder {
	id := MakeID()
	return &ShareholderBuilder{
		ID:         id,
		Name:       "holder " + id[:8],
		Ownership:  "10",
		Investment: "0",
		Email:      fmt.Sprintf("%s@example.com", id[:8]),
		Status:     model.ShareholderActive,
	}
}

// WithName sets a custom name.
func (b *ShareholderBuilder) WithName(name string) *ShareholderBuilder {
	b.Name = name
	return b
}

// WithOwnership sets the ownership percentage.
func (b *ShareholderBuilder) WithOwnership(ownership string) *ShareholderBuilder {
	b.Ownership = ownership
	return b
}

// WithInvestment sets the cumulative investment.
func (b *ShareholderBuilder) WithInvestment(investment string) *ShareholderBuilder {
	b.Investment = investment
	return b
}

// Inactive marks the shareholder as inactive.
func (b *ShareholderBuilder) Inactive() *ShareholderBuilder {
	b.Status = model.ShareholderInactive
	return b
}

// Build creates the shareholder in the database and returns it.
func (b *ShareholderBuilder) Build(t *testing.T, db *sql.DB) model.Shareholder {
	t.Helper()

	query := `
		INSERT INTO shareholders (id, name, ownership, investment, email, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Ownership, b.Investment, b.Email, b.Status)
	if err != nil {
		t.Fatalf("Failed to create test shareholder: %v", err)
	}

	return model.Shareholder{
		ID:         b.ID,
		Name:       b.Name,
		Ownership:  mustDecimal(t, b.Ownership),
		Investment: mustDecimal(t, b.Investment),
		Email:      b.Email,
		Status:     b.Status,
	}
}

// PositionBuilder provides a fluent interface for creating test positions.
// Derived columns are computed from the primitive ones at build time.
type PositionBuilder struct {
	ID            string
	Ticker        string
	TotalShares   string
	TotalInvested string
	CurrentPrice  string
	Realized      string
	DividendYield string
}

// NewPosition creates a PositionBuilder with sensible defaults: 100 shares
// bought for 5000 total, currently trading at 60.
func NewPosition(ticker string) *PositionBuilder {
	return &PositionBuilder{
		ID:            MakeID(),
		Ticker:        ticker,
		TotalShares:   "100",
		TotalInvested: "5000",
		CurrentPrice:  "60",
		Realized:      "0",
		DividendYield: "0",
	}
}

// WithShares sets the share count.
func (b *PositionBuilder) WithShares(shares string) *PositionBuilder {
	b.TotalShares = shares
	return b
}

// WithInvested sets the invested capital.
func (b *PositionBuilder) WithInvested(invested string) *PositionBuilder {
	b.TotalInvested = invested
	return b
}

// WithPrice sets the current price.
func (b *PositionBuilder) WithPrice(price string) *PositionBuilder {
	b.CurrentPrice = price
	return b
}

// WithRealized sets the realized profit/loss.
func (b *PositionBuilder) WithRealized(realized string) *PositionBuilder {
	b.Realized = realized
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	shares := mustDecimal(t, b.TotalShares)
	invested := mustDecimal(t, b.TotalInvested)
	price := mustDecimal(t, b.CurrentPrice)
	yield := mustDecimal(t, b.DividendYield)

	avg := decimal.Zero
	if shares.IsPositive() {
		avg = invested.Div(shares)
	}
	value := shares.Mul(price).Round(2)
	unrealized := value.Sub(invested)
	yieldCash := yield.Div(decimal.NewFromInt(100)).Mul(value).Round(2)

	query := `
		INSERT INTO portfolio (
			id, ticker, total_shares, total_invested, average_purchase_price,
			current_price, total_value, unrealized_profit_loss,
			realized_profit_loss, dividend_yield, dividend_yield_cash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.Ticker, shares.String(), invested.String(), avg.String(),
		price.String(), value.String(), unrealized.String(),
		b.Realized, yield.String(), yieldCash.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return model.Position{
		ID:                   b.ID,
		Ticker:               b.Ticker,
		TotalShares:          shares,
		TotalInvested:        invested,
		AveragePurchasePrice: avg,
		CurrentPrice:         price,
		TotalValue:           value,
		UnrealizedProfitLoss: unrealized,
		RealizedProfitLoss:   mustDecimal(t, b.Realized),
		DividendYield:        yield,
		DividendYieldCash:    yieldCash,
	}
}

// FirmBuilder provides a fluent interface for creating the test firm ledger.
type FirmBuilder struct {
	ID       string
	FirmName string
	Cash     string
}

// NewFirm creates a FirmBuilder with sensible defaults.
func NewFirm() *FirmBuilder {
	return &FirmBuilder{
		ID:       MakeID(),
		FirmName: "test firm " + MakeID()[:8],
		Cash:     "0",
	}
}

// WithCash sets the starting cash balance.
func (b *FirmBuilder) WithCash(cash string) *FirmBuilder {
	b.Cash = cash
	return b
}

// Build creates the firm row in the database and returns it. Derived columns
// start at cash-only values as if no positions existed yet.
func (b *FirmBuilder) Build(t *testing.T, db *sql.DB) model.Firm {
	t.Helper()

	cash := mustDecimal(t, b.Cash)

	query := `
		INSERT INTO firm (id, capital, assets, cash, firm_name)
		VALUES (?, ?, '0', ?, ?)
	`

	_, err := db.Exec(query, b.ID, cash.String(), cash.String(), b.FirmName)
	if err != nil {
		t.Fatalf("Failed to create test firm: %v", err)
	}

	return model.Firm{
		ID:       b.ID,
		Capital:  cash,
		Assets:   decimal.Zero,
		Cash:     cash,
		FirmName: b.FirmName,
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}
