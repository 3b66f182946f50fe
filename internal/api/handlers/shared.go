package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sonnyholman/novusedge/internal/api/response"
	"github.com/sonnyholman/novusedge/internal/apperrors"
)

// parseJSON decodes a JSON request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// statusForError maps engine errors to HTTP status codes. Anything not in the
// taxonomy is an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrInvalidEmail),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		return http.StatusBadRequest

	case errors.Is(err, apperrors.ErrShareholderNotFound),
		errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrFirmNotFound),
		errors.Is(err, apperrors.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrInsufficientCash),
		errors.Is(err, apperrors.ErrOverEntitlement),
		errors.Is(err, apperrors.ErrOverOwnershipCap),
		errors.Is(err, apperrors.ErrDuplicateEntry),
		errors.Is(err, apperrors.ErrShareholderInactive),
		errors.Is(err, apperrors.ErrShareholderHasOwnership),
		errors.Is(err, apperrors.ErrPartialLiquidationFailure):
		return http.StatusConflict

	case errors.Is(err, apperrors.ErrLockTimeout):
		return http.StatusLocked

	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes a service-layer error with its mapped status.
func respondServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, "internal error", err.Error())
		return
	}
	response.RespondError(w, status, err.Error(), nil)
}
