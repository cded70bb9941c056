package orders

import "time"

// Order fulfillment statuses. Every order starts as processing; moving to
// completed/cancelled is owned by a surrounding fulfillment workflow.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment statuses. pending is the only non-terminal state.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// LineItem is one product line frozen into an order at creation time.
type LineItem struct {
	ProductID string  `dynamodbav:"product_id" json:"productId"`
	Title     string  `dynamodbav:"title" json:"title"`
	Price     float64 `dynamodbav:"price" json:"price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	Image     string  `dynamodbav:"image,omitempty" json:"image,omitempty"`
}

// ShippingAddress fields are plain strings; absent values are stored as
// empty strings, never omitted.
type ShippingAddress struct {
	FullName     string `dynamodbav:"full_name" json:"fullName"`
	Street       string `dynamodbav:"street" json:"street"`
	City         string `dynamodbav:"city" json:"city"`
	PostalCode   string `dynamodbav:"postal_code" json:"postalCode"`
	State        string `dynamodbav:"state" json:"state"`
	Municipality string `dynamodbav:"municipality" json:"municipality"`
	Colonia      string `dynamodbav:"colonia" json:"colonia"`
}

// ShippingMethod is the carrier rate the customer selected at checkout.
type ShippingMethod struct {
	Carrier           string    `dynamodbav:"carrier" json:"carrier"`
	Service           string    `dynamodbav:"service" json:"service"`
	Cost              float64   `dynamodbav:"cost" json:"cost"`
	EstimatedDelivery time.Time `dynamodbav:"estimated_delivery" json:"estimatedDelivery"`
}

// Payment tracks the asynchronous gateway outcome. Status starts pending
// and moves exactly once to completed or failed; TransactionID stays empty
// until the gateway confirms.
type Payment struct {
	Method        string  `dynamodbav:"method" json:"method"`
	Amount        float64 `dynamodbav:"amount" json:"amount"`
	Status        string  `dynamodbav:"status" json:"status"`
	TransactionID string  `dynamodbav:"transaction_id" json:"transactionId"`
}

// Order is the immutable checkout snapshot stored in the orders table under
// the (user_id, order_id) composite key. After creation only payment.status,
// payment.transaction_id, status and updated_at ever change.
type Order struct {
	OrderID         string          `dynamodbav:"order_id" json:"id"` // SK
	UserID          string          `dynamodbav:"user_id" json:"userId"` // PK
	CustomerName    string          `dynamodbav:"customer_name" json:"customerName"`
	Items           []LineItem      `dynamodbav:"items" json:"items"`
	ShippingAddress ShippingAddress `dynamodbav:"shipping_address" json:"shippingAddress"`
	ShippingMethod  ShippingMethod  `dynamodbav:"shipping_method" json:"shippingMethod"`
	Payment         Payment         `dynamodbav:"payment" json:"payment"`
	Subtotal        float64         `dynamodbav:"subtotal" json:"subtotal"`
	Total           float64         `dynamodbav:"total" json:"total"`
	Status          string          `dynamodbav:"status" json:"status"`
	CreatedAt       time.Time       `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `dynamodbav:"updated_at" json:"updatedAt"`
}

// Draft carries the caller-supplied checkout data: the cart snapshot plus
// shipping and payment selections. The engine never re-reads the cart
// itself; the caller passes the snapshot it showed the user. Pointer
// fields distinguish "absent" from a legitimate zero.
type Draft struct {
	CustomerName    string
	Items           []LineItem
	ShippingAddress ShippingAddress
	ShippingMethod  ShippingMethod
	PaymentMethod   string
	PaymentAmount   *float64
	Subtotal        *float64
	Total           *float64
}
