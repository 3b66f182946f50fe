package validation

import (
	"strings"

	"github.com/sonnyholman/novusedge/internal/api/request"
)

// ValidateCreateFirm validates a firm creation request.
func ValidateCreateFirm(req request.CreateFirmRequest) error {
	if strings.TrimSpace(req.FirmName) == "" {
		return &Error{Fields: map[string]string{"firmName": "firmName is required"}}
	}
	return nil
}

// ValidatePosting validates an expense, revenue or liability posting.
func ValidatePosting(req request.PostingRequest) error {
	if !req.Amount.IsPositive() {
		return &Error{Fields: map[string]string{"amount": "amount must be positive"}}
	}
	return nil
}
