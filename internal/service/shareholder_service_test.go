package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/service"
	"github.com/sonnyholman/novusedge/internal/testutil"
)

// TestOnboard_CreditsInvestmentToCash verifies onboarding stores the
// shareholder (name lowercased) and moves their investment into firm cash
// atomically.
func TestOnboard_CreditsInvestmentToCash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)

	holder, err := eng.Shareholder.Onboard(ctx, service.OnboardRequest{
		Name:       "Alice Jensen",
		Email:      "alice@example.com",
		Ownership:  d(t, "40"),
		Investment: d(t, "10000"),
	})
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}

	if holder.Name != "alice jensen" {
		t.Errorf("Name = %q, want lowercased", holder.Name)
	}
	if holder.Status != model.ShareholderActive {
		t.Errorf("Status = %q, want active", holder.Status)
	}

	firm, err := eng.Firm.GetFirm(ctx)
	if err != nil {
		t.Fatalf("GetFirm: %v", err)
	}
	assertDecimal(t, "firm.Cash", firm.Cash, d(t, "10000"))
	assertDecimal(t, "firm.Capital", firm.Capital, d(t, "10000"))
}

// TestOnboard_OwnershipCap verifies the 100% cap across all shareholders: a
// newcomer pushing the total past 100 is rejected without side effects.
func TestOnboard_OwnershipCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)
	testutil.NewShareholder().WithOwnership("70").Build(t, db)

	_, err := eng.Shareholder.Onboard(ctx, service.OnboardRequest{
		Name:      "bob",
		Email:     "bob@example.com",
		Ownership: d(t, "31"),
	})
	if !errors.Is(err, apperrors.ErrOverOwnershipCap) {
		t.Fatalf("expected ErrOverOwnershipCap, got %v", err)
	}

	testutil.AssertRowCount(t, db, "shareholders", 1)

	// Exactly reaching 100 is allowed.
	if _, err := eng.Shareholder.Onboard(ctx, service.OnboardRequest{
		Name:      "bob",
		Email:     "bob@example.com",
		Ownership: d(t, "30"),
	}); err != nil {
		t.Fatalf("Onboard at cap: %v", err)
	}
}

// TestOnboard_Validation covers input rejection: bad email, duplicate name.
func TestOnboard_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)

	t.Run("invalid email", func(t *testing.T) {
		_, err := eng.Shareholder.Onboard(ctx, service.OnboardRequest{
			Name:      "carol",
			Email:     "not-an-email",
			Ownership: d(t, "10"),
		})
		if !errors.Is(err, apperrors.ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		req := service.OnboardRequest{
			Name:      "Carol",
			Email:     "carol@example.com",
			Ownership: d(t, "10"),
		}
		if _, err := eng.Shareholder.Onboard(ctx, req); err != nil {
			t.Fatalf("first Onboard: %v", err)
		}

		req.Email = "carol2@example.com"
		_, err := eng.Shareholder.Onboard(ctx, req)
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Fatalf("expected ErrDuplicateEntry, got %v", err)
		}
	})
}

// TestDelete_RefusedWhileHoldingOwnership verifies a shareholder cannot be
// removed until their stake is fully withdrawn.
func TestDelete_RefusedWhileHoldingOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)
	vested := testutil.NewShareholder().WithOwnership("25").Build(t, db)
	divested := testutil.NewShareholder().WithOwnership("0").Build(t, db)

	err := eng.Shareholder.Delete(ctx, vested.ID)
	if !errors.Is(err, apperrors.ErrShareholderHasOwnership) {
		t.Fatalf("expected ErrShareholderHasOwnership, got %v", err)
	}

	if err := eng.Shareholder.Delete(ctx, divested.ID); err != nil {
		t.Fatalf("Delete divested: %v", err)
	}
	testutil.AssertRowCount(t, db, "shareholders", 1)
}

// TestSetStatus flips a shareholder between active and inactive.
func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := testutil.NewTestEngine(t, db)
	ctx := context.Background()

	testutil.NewFirm().WithCash("0").Build(t, db)
	holder := testutil.NewShareholder().Build(t, db)

	updated, err := eng.Shareholder.SetStatus(ctx, holder.ID, model.ShareholderInactive)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if updated.Status != model.ShareholderInactive {
		t.Errorf("Status = %q, want inactive", updated.Status)
	}

	if _, err := eng.Shareholder.SetStatus(ctx, holder.ID, "suspended"); !errors.Is(err, apperrors.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField for bad status, got %v", err)
	}
}
