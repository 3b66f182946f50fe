package request

import "github.com/shopspring/decimal"

// OnboardShareholderRequest represents the request body for onboarding a shareholder.
type OnboardShareholderRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Ownership  decimal.Decimal `json:"ownership"`
	Investment decimal.Decimal `json:"investment"`
}

// UpdateShareholderStatusRequest represents the request body for a status change.
type UpdateShareholderStatusRequest struct {
	Status string `json:"status"`
}
