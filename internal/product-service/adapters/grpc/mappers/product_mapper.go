package mappers

import (
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/product-service/domain"
)

// ProductInputFromRPC treats an empty name as absent.
func ProductInputFromRPC(f *rpc.ProductFields) domain.ProductInput {
	if f == nil {
		return domain.ProductInput{}
	}
	in := domain.ProductInput{
		Description: f.Description,
		Price:       f.Price,
		Stock:       f.Stock,
	}
	if f.Name != "" {
		name := f.Name
		in.Name = &name
	}
	return in
}

func ProductToRPC(p *domain.Product) *rpc.Product {
	if p == nil {
		return nil
	}
	return &rpc.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductsToRPC(products []domain.Product) []rpc.Product {
	out := make([]rpc.Product, len(products))
	for i := range products {
		out[i] = *ProductToRPC(&products[i])
	}
	return out
}
