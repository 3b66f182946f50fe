package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/testutil"
)

// TestPositionLookupIsCaseInsensitive verifies tickers are normalized to
// uppercase on the way into and out of the portfolio table.
func TestPositionLookupIsCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPositionRepository(db)
	ctx := context.Background()

	testutil.NewPosition("ACME").Build(t, db)

	position, err := repo.GetPosition(ctx, "acme")
	if err != nil {
		t.Fatalf("GetPosition: %v", err)
	}
	if position.Ticker != "ACME" {
		t.Errorf("Ticker = %q, want ACME", position.Ticker)
	}

	if _, err := repo.GetPosition(ctx, "NOPE"); !errors.Is(err, apperrors.ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

// TestTransactionFilter verifies the ticker and time-range filters and the
// oldest-first ordering of the audit trail.
func TestTransactionFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	insert := func(ticker string, offset time.Duration) {
		t.Helper()
		err := repo.InsertTransaction(ctx, &model.Transaction{
			ID:            uuid.New().String(),
			Ticker:        ticker,
			Shares:        decimal.NewFromInt(1),
			PricePerShare: decimal.NewFromInt(10),
			TotalValue:    decimal.NewFromInt(10),
			Type:          model.TransactionBuy,
			CreatedAt:     base.Add(offset),
		})
		if err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	insert("ACME", 0)
	insert("BOLT", time.Hour)
	insert("ACME", 48*time.Hour)

	t.Run("by ticker", func(t *testing.T) {
		got, err := repo.GetTransactions(ctx, repository.TransactionFilter{Ticker: "acme"})
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d transactions, want 2", len(got))
		}
		if !got[0].CreatedAt.Before(got[1].CreatedAt) {
			t.Error("expected oldest-first ordering")
		}
	})

	t.Run("by time range", func(t *testing.T) {
		got, err := repo.GetTransactions(ctx, repository.TransactionFilter{
			StartDate: base.Add(30 * time.Minute),
			EndDate:   base.Add(24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("GetTransactions: %v", err)
		}
		if len(got) != 1 || got[0].Ticker != "BOLT" {
			t.Fatalf("got %v, want single BOLT row", got)
		}
	})
}

// TestShareholderUpdate verifies the field-update set touches only the named
// fields and reports missing rows.
func TestShareholderUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShareholderRepository(db)
	ctx := context.Background()

	holder := testutil.NewShareholder().WithOwnership("40").WithInvestment("1000").Build(t, db)

	newOwnership := decimal.RequireFromString("35.5")
	err := repo.UpdateShareholder(ctx, holder.ID, repository.ShareholderUpdate{
		Ownership: &newOwnership,
	})
	if err != nil {
		t.Fatalf("UpdateShareholder: %v", err)
	}

	got, err := repo.GetShareholder(ctx, holder.ID)
	if err != nil {
		t.Fatalf("GetShareholder: %v", err)
	}
	if !got.Ownership.Equal(newOwnership) {
		t.Errorf("Ownership = %s, want 35.5", got.Ownership)
	}
	if !got.Investment.Equal(holder.Investment) {
		t.Errorf("Investment changed to %s", got.Investment)
	}

	t.Run("empty update rejected", func(t *testing.T) {
		err := repo.UpdateShareholder(ctx, holder.ID, repository.ShareholderUpdate{})
		if !errors.Is(err, apperrors.ErrMissingRequiredField) {
			t.Fatalf("expected ErrMissingRequiredField, got %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		err := repo.UpdateShareholder(ctx, uuid.New().String(), repository.ShareholderUpdate{
			Ownership: &newOwnership,
		})
		if !errors.Is(err, apperrors.ErrShareholderNotFound) {
			t.Fatalf("expected ErrShareholderNotFound, got %v", err)
		}
	})
}

// TestFirmNotFound verifies the sentinel before the firm row exists.
func TestFirmNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFirmRepository(db)

	if _, err := repo.GetFirm(context.Background()); !errors.Is(err, apperrors.ErrFirmNotFound) {
		t.Fatalf("expected ErrFirmNotFound, got %v", err)
	}
}

// TestTaskRunUpsert verifies RecordRun overwrites the previous run time.
func TestTaskRunUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	if _, err := repo.GetLastRun(ctx, "daily_refresh"); !errors.Is(err, apperrors.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	first := time.Date(2026, 5, 1, 17, 30, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	for _, runAt := range []time.Time{first, second} {
		if err := repo.RecordRun(ctx, "daily_refresh", runAt); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got, err := repo.GetLastRun(ctx, "daily_refresh")
	if err != nil {
		t.Fatalf("GetLastRun: %v", err)
	}
	if !got.LastRun.Equal(second) {
		t.Errorf("LastRun = %v, want %v", got.LastRun, second)
	}
}
