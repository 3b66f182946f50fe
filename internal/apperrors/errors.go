package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrShareholderNotFound indicates that a shareholder with the given ID does not exist.
	ErrShareholderNotFound = errors.New("shareholder not found")

	// ErrPositionNotFound indicates that the portfolio holds no position for the given ticker.
	ErrPositionNotFound = errors.New("position not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrFirmNotFound indicates that the firm ledger row has not been created yet.
	ErrFirmNotFound = errors.New("firm not found")

	// ErrTaskNotFound indicates that no run has been recorded for the given task name.
	ErrTaskNotFound = errors.New("task not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell cannot be completed because
	// the position does not hold enough shares. The position is left unchanged.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInsufficientCash indicates that the firm's cash reserve cannot cover
	// a buy settlement or a cash payout.
	ErrInsufficientCash = errors.New("insufficient cash")

	// ErrOverEntitlement indicates that a withdrawal request exceeds the
	// shareholder's entitled share of firm capital. Rejected at planning time.
	ErrOverEntitlement = errors.New("withdrawal exceeds shareholder entitlement")

	// ErrOverOwnershipCap indicates that an onboarding or ownership adjustment
	// would push total ownership across all shareholders above 100%.
	ErrOverOwnershipCap = errors.New("total ownership would exceed 100%")

	// ErrPartialLiquidationFailure indicates that a multi-sell withdrawal could
	// not complete atomically. The entire plan was rolled back; the caller may
	// retry with a fresh plan.
	ErrPartialLiquidationFailure = errors.New("liquidation plan could not be applied atomically")

	// ErrLockTimeout indicates that lock acquisition exceeded its bound.
	// Recoverable by caller retry.
	ErrLockTimeout = errors.New("lock acquisition timed out")

	// ErrInvalidQuantity indicates a share quantity finer than the permitted
	// quantization unit (two decimal places) or not strictly positive.
	ErrInvalidQuantity = errors.New("invalid share quantity")

	// ErrShareholderInactive indicates an operation that requires an active
	// shareholder was attempted against an inactive one.
	ErrShareholderInactive = errors.New("shareholder is not active")

	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrShareholderHasOwnership indicates a deletion attempt against a
	// shareholder still holding a nonzero ownership stake.
	ErrShareholderHasOwnership = errors.New("shareholder still holds ownership")
)

// Refresh errors. A stale price is recorded per ticker and is non-fatal: a
// refresh cycle that lacks a quote for a known ticker keeps the last price.
var (
	// ErrStalePrice indicates a refresh cycle had no quote for a known ticker.
	ErrStalePrice = errors.New("no quote for ticker, price left stale")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the ledger is in an inconsistent
	// state (e.g., firm assets diverging from the sum of position values).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)
