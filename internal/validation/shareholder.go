package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sonnyholman/novusedge/internal/api/request"
)

var maxOwnership = decimal.NewFromInt(100)

// ValidateOnboardShareholder validates a shareholder onboarding request.
//
// Required fields:
//   - name: non-empty
//   - email: well-formed address
//   - ownership: 0 < ownership <= 100
//
// Investment is optional but must be non-negative. The 100% cap across all
// shareholders is a business rule checked by the service.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateOnboardShareholder(req request.OnboardShareholderRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if !IsValidEmail(req.Email) {
		errors["email"] = "email is not a valid address"
	}

	if !req.Ownership.IsPositive() || req.Ownership.GreaterThan(maxOwnership) {
		errors["ownership"] = "ownership must be greater than 0 and at most 100"
	}

	if req.Investment.IsNegative() {
		errors["investment"] = "investment must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateShareholderStatus validates a status-change request.
func ValidateShareholderStatus(req request.UpdateShareholderStatusRequest) error {
	if req.Status != "active" && req.Status != "inactive" {
		return &Error{Fields: map[string]string{"status": "status must be active or inactive"}}
	}
	return nil
}
