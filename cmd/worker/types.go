package main

// PaymentConfirmation is the payload the payment gateway integration drops
// on the confirmations queue once a charge settles or fails.
type PaymentConfirmation struct {
	UserID        string `json:"user_id"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"` // completed | failed
	CorrelationID string `json:"correlation_id,omitempty"`
}
