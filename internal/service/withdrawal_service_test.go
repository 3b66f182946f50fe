package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/testutil"
)

// recomputeFirm syncs the firm's derived aggregates with directly inserted
// fixture rows, the way every service operation does after mutating state.
func recomputeFirm(t *testing.T, db *sql.DB, eng *testutil.Engine) {
	t.Helper()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer tx.Rollback()

	if _, err := eng.Firm.RecomputeTx(ctx, tx); err != nil {
		t.Fatalf("RecomputeTx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

// TestPlan_ProRataSelection verifies the proportional selection policy: each
// position contributes to the shortfall in proportion to its share of total
// assets value.
func TestPlan_ProRataSelection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("1000").Build(t, db)
	testutil.NewPosition("ACME").WithShares("100").WithInvested("5000").WithPrice("60").Build(t, db)
	testutil.NewPosition("BOLT").WithShares("50").WithInvested("5000").WithPrice("100").Build(t, db)
	testutil.NewPosition("CORE").WithShares("25").WithInvested("1000").WithPrice("40").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").WithInvestment("10000").Build(t, db)

	recomputeFirm(t, db, eng)

	plan, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "4000"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Shortfall 3000 split 6000:5000:1000 across 12000 of assets.
	wantShares := map[string]string{
		"ACME": "25",
		"BOLT": "12.5",
		"CORE": "6.25",
	}
	if len(plan.Sales) != len(wantShares) {
		t.Fatalf("got %d sales, want %d", len(plan.Sales), len(wantShares))
	}
	for _, sale := range plan.Sales {
		assertDecimal(t, "shares for "+sale.Ticker, sale.Shares, d(t, wantShares[sale.Ticker]))
	}

	// Only ACME projects a gain: (60-50)*25 = 250. Tax 25% of that, fee 1%
	// of the gross payout.
	assertDecimal(t, "plan.ProjectedTax", plan.ProjectedTax, d(t, "62.50"))
	assertDecimal(t, "plan.ProjectedFee", plan.ProjectedFee, d(t, "40.00"))
	assertDecimal(t, "plan.NetPayout", plan.NetPayout, d(t, "3897.50"))
}

// TestPlan_CashCovered verifies the short-circuit: when cash covers the
// request, no liquidation is planned and no gains are projected.
func TestPlan_CashCovered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("5000").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").Build(t, db)
	recomputeFirm(t, db, eng)

	plan, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "1000"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(plan.Sales) != 0 {
		t.Fatalf("got %d sales, want none", len(plan.Sales))
	}
	assertDecimal(t, "plan.ProjectedTax", plan.ProjectedTax, decimal.Zero)
	assertDecimal(t, "plan.ProjectedFee", plan.ProjectedFee, d(t, "10.00"))
	assertDecimal(t, "plan.NetPayout", plan.NetPayout, d(t, "990.00"))
}

// TestPlan_Rejections covers planning-time guards: entitlement bound and
// inactive shareholders. Neither may leave any trace in the audit trail.
func TestPlan_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("10000").Build(t, db)
	minority := testutil.NewShareholder().WithOwnership("10").Build(t, db)
	inactive := testutil.NewShareholder().WithOwnership("20").Inactive().Build(t, db)
	recomputeFirm(t, db, eng)

	t.Run("over entitlement", func(t *testing.T) {
		// Entitlement is 10% of 10000 capital = 1000.
		_, err := eng.Withdrawal.Plan(ctx, minority.ID, d(t, "1001"))
		if !errors.Is(err, apperrors.ErrOverEntitlement) {
			t.Fatalf("expected ErrOverEntitlement, got %v", err)
		}
	})

	t.Run("inactive shareholder", func(t *testing.T) {
		_, err := eng.Withdrawal.Plan(ctx, inactive.ID, d(t, "100"))
		if !errors.Is(err, apperrors.ErrShareholderInactive) {
			t.Fatalf("expected ErrShareholderInactive, got %v", err)
		}
	})

	testutil.AssertRowCount(t, db, "transactions", 0)
}

// TestExecute_AtomicSuccess executes a three-sell plan and verifies the
// ledger lands exactly on the plan's projections: proceeds in, payout out,
// tax to liabilities, fee to revenue, shareholder stake reduced.
func TestExecute_AtomicSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("1000").Build(t, db)
	testutil.NewPosition("ACME").WithShares("100").WithInvested("5000").WithPrice("60").Build(t, db)
	testutil.NewPosition("BOLT").WithShares("50").WithInvested("5000").WithPrice("100").Build(t, db)
	testutil.NewPosition("CORE").WithShares("25").WithInvested("1000").WithPrice("40").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").WithInvestment("10000").Build(t, db)
	recomputeFirm(t, db, eng)

	plan, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "4000"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	firm, err := eng.Withdrawal.Execute(ctx, plan)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Cash: 1000 + 3000 proceeds - 3897.50 net payout. The withheld tax and
	// fee (62.50 + 40) remain in cash, backing the liability and the revenue.
	assertDecimal(t, "firm.Cash", firm.Cash, d(t, "102.50"))
	assertDecimal(t, "firm.Assets", firm.Assets, d(t, "9000"))
	assertDecimal(t, "firm.Capital", firm.Capital, d(t, "9102.50"))
	assertDecimal(t, "firm.Liabilities", firm.Liabilities, d(t, "62.50"))
	assertDecimal(t, "firm.Revenue", firm.Revenue, d(t, "40.00"))
	assertDecimal(t, "withheld backing", firm.Cash, plan.ProjectedTax.Add(plan.ProjectedFee))
	// Realized 250 on ACME plus the fee revenue.
	assertDecimal(t, "firm.ProfitLoss", firm.ProfitLoss, d(t, "290.00"))

	// Investment shrinks by the requested amount; ownership by the
	// withdrawn share of pre-withdrawal capital (4000/13000 = 30.77%).
	after, err := eng.Shareholder.GetShareholder(ctx, holder.ID)
	if err != nil {
		t.Fatalf("GetShareholder: %v", err)
	}
	assertDecimal(t, "shareholder.Investment", after.Investment, d(t, "6000"))
	assertDecimal(t, "shareholder.Ownership", after.Ownership, d(t, "69.23"))

	testutil.AssertRowCount(t, db, "transactions", 3)
	assertLedgerConsistent(t, eng)
}

// TestExecute_RollbackOnDepletedPosition depletes one planned position
// between planning and execution and verifies full rollback: no sell, no
// payout, no ownership change is committed.
func TestExecute_RollbackOnDepletedPosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("1000").Build(t, db)
	testutil.NewPosition("ACME").WithShares("100").WithInvested("5000").WithPrice("60").Build(t, db)
	testutil.NewPosition("BOLT").WithShares("50").WithInvested("5000").WithPrice("100").Build(t, db)
	testutil.NewPosition("CORE").WithShares("25").WithInvested("1000").WithPrice("40").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").WithInvestment("10000").Build(t, db)
	recomputeFirm(t, db, eng)

	plan, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "4000"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Concurrent activity reduces BOLT below its planned 12.5 shares.
	if _, err := db.Exec(`UPDATE portfolio SET total_shares = '10' WHERE ticker = 'BOLT'`); err != nil {
		t.Fatalf("deplete BOLT: %v", err)
	}

	_, err = eng.Withdrawal.Execute(ctx, plan)
	if !errors.Is(err, apperrors.ErrPartialLiquidationFailure) {
		t.Fatalf("expected ErrPartialLiquidationFailure, got %v", err)
	}

	// Nothing committed: ACME untouched even though it precedes BOLT in the
	// plan, firm cash unchanged, shareholder unchanged, no audit rows.
	acme, err := eng.PositionRepo.GetPosition(ctx, "ACME")
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	assertDecimal(t, "ACME.TotalShares", acme.TotalShares, d(t, "100"))

	firm, err := eng.Firm.GetFirm(ctx)
	if err != nil {
		t.Fatalf("GetFirm: %v", err)
	}
	assertDecimal(t, "firm.Cash", firm.Cash, d(t, "1000"))
	assertDecimal(t, "firm.Liabilities", firm.Liabilities, decimal.Zero)

	after, err := eng.Shareholder.GetShareholder(ctx, holder.ID)
	if err != nil {
		t.Fatalf("GetShareholder: %v", err)
	}
	assertDecimal(t, "shareholder.Ownership", after.Ownership, d(t, "100"))
	assertDecimal(t, "shareholder.Investment", after.Investment, d(t, "10000"))

	testutil.AssertRowCount(t, db, "transactions", 0)
}

// TestPlan_RemainderToLargestPosition forces floor-rounding to leave a cash
// gap and verifies the largest position absorbs it, overshooting the
// shortfall by at most one quantization unit's worth.
func TestPlan_RemainderToLargestPosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	// Two positions valued 700 and 299.91; the smaller one's pro-rata cash
	// allocation does not divide evenly by its price, so flooring leaves a
	// gap the largest position must absorb.
	testutil.NewFirm().WithCash("0").Build(t, db)
	testutil.NewPosition("BIGG").WithShares("100").WithInvested("700").WithPrice("7").Build(t, db)
	testutil.NewPosition("SMLL").WithShares("23.07").WithInvested("300").WithPrice("13").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").Build(t, db)
	recomputeFirm(t, db, eng)

	plan, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "100"))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	raised := decimal.Zero
	for _, sale := range plan.Sales {
		raised = raised.Add(sale.Proceeds)
	}
	if raised.LessThan(d(t, "100")) {
		t.Errorf("raised %s, want >= 100", raised.String())
	}
	// Overshoot bounded by one quantization unit of the largest position:
	// 0.01 shares at price 7.
	if raised.GreaterThan(d(t, "100.07")) {
		t.Errorf("raised %s, want <= 100.07", raised.String())
	}
}

// TestPlan_RejectsUnderRaisedPlan pins the flooring edge case: the whole book
// must be sold to cover the request, TINY's quantity floors to 0.99 shares,
// and fully allocated BIGG has no slack to absorb the loss. Planning must
// fail rather than return a plan that cannot raise the shortfall.
func TestPlan_RejectsUnderRaisedPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)
	testutil.NewPosition("BIGG").WithShares("1").WithInvested("100").WithPrice("100").Build(t, db)
	testutil.NewPosition("TINY").WithShares("1").WithInvested("4").WithPrice("4.0001").Build(t, db)
	holder := testutil.NewShareholder().WithOwnership("100").Build(t, db)
	recomputeFirm(t, db, eng)

	_, err := eng.Withdrawal.Plan(ctx, holder.ID, d(t, "104"))
	if !errors.Is(err, apperrors.ErrInsufficientShares) {
		t.Fatalf("expected ErrInsufficientShares, got %v", err)
	}
}
