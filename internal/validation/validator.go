package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// the claimed payment amount, when provided, must equal the order total
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

// checkoutStructValidation compares payment amount and total in cents to
// avoid float rounding artifacts.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	if req.PaymentAmount == nil || req.Total == nil {
		return
	}

	amountCents := int(math.Round(*req.PaymentAmount * 100))
	totalCents := int(math.Round(*req.Total * 100))
	if amountCents != totalCents {
		sl.ReportError(req.PaymentAmount, "paymentAmount", "PaymentAmount", "amount_match_total",
			fmt.Sprintf("payment amount %.2f != total %.2f", *req.PaymentAmount, *req.Total))
	}
}
