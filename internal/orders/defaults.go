package orders

import "time"

// Field defaults applied once when a draft becomes an order. Keeping the
// whole defaulting policy in this file makes it auditable in one place:
//
//	line title          ""     -> "Unnamed Product"
//	line quantity       < 1    -> 1
//	line price          < 0    -> 0
//	payment amount      absent -> total
//	subtotal            absent -> total
//	estimated delivery  absent -> order creation time
//	address fields      zero-valued strings are stored as "" (never omitted)

const defaultLineTitle = "Unnamed Product"

// defaultLineItems returns a defensive copy of the draft's items with line
// defaults applied. The copy is what gets frozen into the order: later
// mutations of the caller's slice never reach a placed order.
func defaultLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].Title == "" {
			out[i].Title = defaultLineTitle
		}
		if out[i].Quantity < 1 {
			out[i].Quantity = 1
		}
		if out[i].Price < 0 {
			out[i].Price = 0
		}
	}
	return out
}

// defaultShippingMethod fills the delivery estimate with now when the
// caller sent none.
func defaultShippingMethod(m ShippingMethod, now time.Time) ShippingMethod {
	if m.EstimatedDelivery.IsZero() {
		m.EstimatedDelivery = now
	}
	return m
}

// amountOr returns *v when present, otherwise the fallback.
func amountOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
