package validation

import (
	"github.com/sonnyholman/novusedge/internal/api/request"
)

// ValidateWithdrawal validates a withdrawal plan/execute request.
//
// Required fields:
//   - shareholderId: valid UUID
//   - amount: positive
//
// Entitlement and cash checks belong to the planner.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateWithdrawal(req request.WithdrawalRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.ShareholderID); err != nil {
		errors["shareholderId"] = err.Error()
	}

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
