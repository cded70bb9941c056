package orders

import "errors"

var (
	// ErrOrderNotFound is returned by mutations targeting an order that
	// does not exist. Reads signal absence with (nil, nil) instead.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPaymentFinal is returned when a payment transition targets an
	// order whose payment already reached completed or failed. Terminal
	// states are never re-entered.
	ErrPaymentFinal = errors.New("payment already in a terminal state")

	// ErrStatusMismatch is returned by UpdateStatus when the order's
	// fulfillment status does not match the expected value.
	ErrStatusMismatch = errors.New("status mismatch/conditional failed")
)

// ValidationError reports a draft that fails a checkout precondition.
// The caller can fix the input and resubmit; these are never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order draft: " + e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
