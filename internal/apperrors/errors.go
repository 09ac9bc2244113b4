package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID or credentials does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrFundNotFound indicates that a fund record does not exist for the user.
	ErrFundNotFound = errors.New("fund not found")

	// ErrHoldingNotFound indicates that the user holds no shares of the instrument.
	ErrHoldingNotFound = errors.New("no holding for instrument")

	// ErrPositionNotFound indicates that no open position exists for the key.
	ErrPositionNotFound = errors.New("position not found")

	// ErrOrderNotFound indicates that an order with the given ID does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// Business rule errors represent order or fund operations rejected before any
// ledger mutation. They carry enough context for a user-facing message.
var (
	// ErrInsufficientFunds indicates that a buy or withdrawal exceeds the
	// fund's available amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientQuantity indicates that a sell exceeds the held quantity.
	ErrInsufficientQuantity = errors.New("insufficient quantity to sell")

	// ErrInvalidQuantityOrPrice indicates a non-positive quantity or price.
	ErrInvalidQuantityOrPrice = errors.New("quantity and price must be positive")

	// ErrBuyBelowLastPrice indicates a buy priced below the holding's last
	// recorded price while the reject-buy-below-last policy is enabled.
	ErrBuyBelowLastPrice = errors.New("buy price below holding's last recorded price")

	// ErrDuplicateUser indicates that the username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// Transient and infrastructure errors.
var (
	// ErrQuoteUnavailable indicates the quote gateway could not supply a
	// price. Non-fatal: callers fall back to the supplied price.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrLedgerConflict indicates a concurrent mutation was detected on a
	// versioned ledger write. Retried internally, never surfaced to callers.
	ErrLedgerConflict = errors.New("ledger write conflict")

	// ErrLedgerInconsistent indicates a write failed partway through the
	// fixed Fund -> Holding -> Position -> Order sequence. Logged as a
	// consistency hazard at the point of failure.
	ErrLedgerInconsistent = errors.New("ledger left inconsistent by partial write")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveFund      = errors.New("failed to retrieve fund")
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrievePositions = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveOrders    = errors.New("failed to retrieve orders")
	ErrFailedToPlaceOrder        = errors.New("failed to place order")
	ErrFailedToUpdateFund        = errors.New("failed to update fund")
)
