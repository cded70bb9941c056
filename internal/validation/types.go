package validation

import "time"

// CheckoutItem is a single cart line as submitted at checkout.
type CheckoutItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Title     string  `json:"title"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Image     string  `json:"image,omitempty"`
}

// CheckoutAddress mirrors the shipping address form. No field is required
// here; missing values are stored as empty strings downstream.
type CheckoutAddress struct {
	FullName     string `json:"fullName"`
	Street       string `json:"street"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	State        string `json:"state"`
	Municipality string `json:"municipality"`
	Colonia      string `json:"colonia"`
}

// CheckoutShipping is the carrier rate the customer selected.
type CheckoutShipping struct {
	Carrier           string    `json:"carrier"`
	Service           string    `json:"service"`
	Cost              float64   `json:"cost" validate:"gte=0"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
}

// CheckoutRequest is the payload for POST /orders. Total is a pointer so a
// legitimate zero total passes while an absent one is rejected.
type CheckoutRequest struct {
	CustomerName    string           `json:"customerName"`
	Items           []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	ShippingAddress CheckoutAddress  `json:"shippingAddress"`
	ShippingMethod  CheckoutShipping `json:"shippingMethod"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
	PaymentAmount   *float64         `json:"paymentAmount,omitempty"`
	Subtotal        *float64         `json:"subtotal,omitempty"`
	Total           *float64         `json:"total" validate:"required"`
}

// PaymentCallbackRequest is the payload for POST /orders/:orderId/payment,
// modelling the gateway's asynchronous confirmation.
type PaymentCallbackRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=completed failed"`
}

// QuoteRequest is the payload for POST /shipping/quotes.
type QuoteRequest struct {
	PostalCode string  `json:"postalCode" validate:"required"`
	Weight     float64 `json:"weight" validate:"required,gt=0"`
	Length     float64 `json:"length,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
}

// EnsureProfileRequest is the payload for POST /users/ensure, called after
// the identity provider signs a user in.
type EnsureProfileRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName"`
}

// CartItemRequest is the payload for POST /cart/items.
type CartItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Title     string  `json:"title"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Image     string  `json:"image,omitempty"`
}

// QuantityRequest is the payload for PATCH /cart/items/:productId. Zero is
// a valid value (a zero-quantity line, not a removal), hence the pointer.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// ProductRequest is the admin payload for PUT /products/:id.
type ProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Brand       string  `json:"brand,omitempty"`
	Image       string  `json:"image,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Rating      int     `json:"rating" validate:"gte=0,lte=5"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// RoleRequest is the admin payload for PUT /users/:userId/role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer admin"`
}
