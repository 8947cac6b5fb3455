package domain

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

const Collection = "orders"

type Order struct {
	docstore.Meta   `bson:",inline"`
	UserID          string      `json:"user_id" bson:"user_id"`
	Items           []OrderItem `json:"items" bson:"items"`
	TotalAmount     float64     `json:"total_amount" bson:"total_amount"`
	Status          OrderStatus `json:"status" bson:"status"`
	ShippingAddress string      `json:"shipping_address" bson:"shipping_address"`
}

// OrderItem holds the product price captured when the order was created.
type OrderItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the item subtotals exactly.
func Total(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status. Any known status may follow
// any other.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateRequest is an order as submitted, before validation.
type CreateRequest struct {
	UserID          string
	Items           []ItemRequest
	ShippingAddress string
}

// UpdateRequest changes the status and/or the shipping address. Items are
// never updated.
type UpdateRequest struct {
	Status          OrderStatus
	ShippingAddress string
}

type ListFilter struct {
	Page   int
	Limit  int
	UserID string
}
