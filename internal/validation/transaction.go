package validation

import (
	"fmt"
	"strings"

	"github.com/sonnyholman/novusedge/internal/api/request"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	"buy": true, "sell": true,
}

// ValidateCreateTransaction validates a transaction creation request.
//
// Required fields:
//   - ticker: non-empty
//   - type: one of: buy, sell
//   - shares: positive
//   - pricePerShare: positive
//
// Fees and dividendYield are optional but must be non-negative. Share
// quantization is enforced by the service, not here.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[req.Type] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if !req.Shares.IsPositive() {
		errors["shares"] = "shares must be positive"
	}

	if !req.PricePerShare.IsPositive() {
		errors["pricePerShare"] = "pricePerShare must be positive"
	}

	if req.Fees.IsNegative() {
		errors["fees"] = "fees must not be negative"
	}

	if req.DividendYield.IsNegative() {
		errors["dividendYield"] = "dividendYield must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
