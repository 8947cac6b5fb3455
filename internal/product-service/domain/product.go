package domain

import "github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"

const Collection = "products"

type Product struct {
	docstore.Meta `bson:",inline"`
	Name          string  `json:"name" bson:"name"`
	Description   string  `json:"description" bson:"description"`
	Price         float64 `json:"price" bson:"price"`
	Stock         int     `json:"stock" bson:"stock"`
}

// ProductInput carries the writable fields; nil means "not provided".
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}
