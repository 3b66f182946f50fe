package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/apperrors"
	"github.com/sonnyholman/novusedge/internal/model"
	"github.com/sonnyholman/novusedge/internal/repository"
	"github.com/sonnyholman/novusedge/internal/validation"
)

var hundred = decimal.NewFromInt(100)

// ShareholderService handles shareholder onboarding and lifecycle. Ownership
// moves only through explicit capital events (onboarding investment,
// withdrawal); there is no direct ownership setter.
type ShareholderService struct {
	db              *sql.DB
	shareholderRepo *repository.ShareholderRepository
	firmService     *FirmService
}

// NewShareholderService creates a new ShareholderService with the provided dependencies.
func NewShareholderService(
	db *sql.DB,
	shareholderRepo *repository.ShareholderRepository,
	firmService *FirmService,
) *ShareholderService {
	return &ShareholderService{
		db:              db,
		shareholderRepo: shareholderRepo,
		firmService:     firmService,
	}
}

// OnboardRequest describes a new shareholder.
type OnboardRequest struct {
	Name       string
	Email      string
	Ownership  decimal.Decimal // percent
	Investment decimal.Decimal
}

// Onboard creates a shareholder and credits their investment to firm cash in
// the same transaction. The combined ownership across all shareholders must
// stay at or below 100%.
func (s *ShareholderService) Onboard(ctx context.Context, req OnboardRequest) (model.Shareholder, error) {
	if req.Name == "" {
		return model.Shareholder{}, apperrors.ErrMissingRequiredField
	}
	if !validation.IsValidEmail(req.Email) {
		return model.Shareholder{}, apperrors.ErrInvalidEmail
	}
	if !req.Ownership.IsPositive() || req.Ownership.GreaterThan(hundred) {
		return model.Shareholder{}, apperrors.ErrOverOwnershipCap
	}
	if req.Investment.IsNegative() {
		return model.Shareholder{}, apperrors.ErrNegativeAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Shareholder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	shareholderRepo := s.shareholderRepo.WithTx(tx)

	total, err := shareholderRepo.SumOwnership(ctx)
	if err != nil {
		return model.Shareholder{}, err
	}
	if total.Add(req.Ownership).GreaterThan(hundred) {
		return model.Shareholder{}, apperrors.ErrOverOwnershipCap
	}

	shareholder := model.Shareholder{
		ID:         uuid.New().String(),
		Name:       strings.ToLower(req.Name),
		Ownership:  req.Ownership,
		Investment: req.Investment.Round(2),
		Email:      req.Email,
		Status:     model.ShareholderActive,
	}
	if err := shareholderRepo.InsertShareholder(ctx, &shareholder); err != nil {
		return model.Shareholder{}, err
	}

	if shareholder.Investment.IsPositive() {
		if _, err := s.firmService.ApplyCashDeltaTx(ctx, tx, shareholder.Investment); err != nil {
			return model.Shareholder{}, err
		}
		if _, err := s.firmService.RecomputeTx(ctx, tx); err != nil {
			return model.Shareholder{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Shareholder{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.shareholderRepo.GetShareholder(ctx, shareholder.ID)
}

// GetShareholder retrieves a shareholder by ID.
func (s *ShareholderService) GetShareholder(ctx context.Context, shareholderID string) (model.Shareholder, error) {
	return s.shareholderRepo.GetShareholder(ctx, shareholderID)
}

// GetAllShareholders retrieves all shareholders.
func (s *ShareholderService) GetAllShareholders(ctx context.Context) ([]model.Shareholder, error) {
	return s.shareholderRepo.GetAllShareholders(ctx)
}

// SetStatus activates or deactivates a shareholder. Inactive shareholders
// keep their ownership but cannot withdraw.
func (s *ShareholderService) SetStatus(ctx context.Context, shareholderID, status string) (model.Shareholder, error) {
	if status != model.ShareholderActive && status != model.ShareholderInactive {
		return model.Shareholder{}, apperrors.ErrMissingRequiredField
	}

	err := s.shareholderRepo.UpdateShareholder(ctx, shareholderID, repository.ShareholderUpdate{
		Status: &status,
	})
	if err != nil {
		return model.Shareholder{}, err
	}
	return s.shareholderRepo.GetShareholder(ctx, shareholderID)
}

// Delete removes a shareholder. Refused while the shareholder still holds
// nonzero ownership; their stake must be withdrawn first.
func (s *ShareholderService) Delete(ctx context.Context, shareholderID string) error {
	shareholder, err := s.shareholderRepo.GetShareholder(ctx, shareholderID)
	if err != nil {
		return err
	}
	if shareholder.Ownership.IsPositive() {
		return apperrors.ErrShareholderHasOwnership
	}
	return s.shareholderRepo.DeleteShareholder(ctx, shareholderID)
}
