package cart

import "time"

// Item is a single product line inside a cart. A cart never holds two
// lines with the same ProductID.
type Item struct {
	ProductID string  `dynamodbav:"product_id" json:"productId"`
	Title     string  `dynamodbav:"title" json:"title"`
	Price     float64 `dynamodbav:"price" json:"price"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	Image     string  `dynamodbav:"image,omitempty" json:"image,omitempty"`
}

// Cart is the per-user cart document stored in the carts table,
// keyed 1:1 by user_id. Version guards the read-modify-write merge.
type Cart struct {
	UserID    string    `dynamodbav:"user_id" json:"userId"`
	Items     []Item    `dynamodbav:"items" json:"items"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updatedAt"`
	Version   int64     `dynamodbav:"version" json:"-"`
}
