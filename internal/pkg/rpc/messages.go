package rpc

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserFields is the writable part of a user. Empty strings leave the stored
// value untouched on update.
type UserFields struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFields is the writable part of a product. Nil numbers leave the
// stored value untouched on update.
type ProductFields struct {
	Name        string   `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderFields is a create request (UserID, Items, ShippingAddress) or an
// update (Status, ShippingAddress). Item prices sent by callers are ignored.
type OrderFields struct {
	UserID          string      `json:"user_id,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	Status          string      `json:"status,omitempty"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type UpdateRequest[F any] struct {
	ID     string `json:"id"`
	Fields F      `json:"fields"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// ListRequest pages through a collection. UserID filters orders and is
// ignored by the other services.
type ListRequest struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

type ListResponse[E any] struct {
	Items []E   `json:"items"`
	Total int64 `json:"total"`
}
