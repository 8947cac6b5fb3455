package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
	"github.com/jcmexdev/ecommerce-gateway/internal/product-service/domain"
)

type Service struct {
	products docstore.Collection[domain.Product]
	policy   *bluemonday.Policy
}

func NewService(products docstore.Collection[domain.Product]) *Service {
	return &Service{products: products, policy: bluemonday.StrictPolicy()}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if in.Name == nil || in.Price == nil {
		return nil, apperr.InvalidArgument("name and price are required")
	}
	p := &domain.Product{}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.InvalidArgument("name is required")
	}

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, apperr.Internal(err)
	}
	slog.InfoContext(ctx, "created product", "product_id", p.ID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(p, in); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, apperr.InvalidArgument("name cannot be empty")
	}
	if err := s.products.Update(ctx, id, p); err != nil {
		return nil, storeError(err)
	}
	slog.InfoContext(ctx, "updated product", "product_id", id)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	slog.InfoContext(ctx, "deleted product", "product_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, q docstore.Query) ([]domain.Product, int64, error) {
	products, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	slog.DebugContext(ctx, "listed products", "count", len(products), "total", total)
	return products, total, nil
}

// apply copies the provided fields onto p, stripping markup from text.
func (s *Service) apply(p *domain.Product, in domain.ProductInput) error {
	if in.Price != nil && *in.Price < 0 {
		return apperr.InvalidArgument("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return apperr.InvalidArgument("stock must not be negative")
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(s.policy.Sanitize(*in.Name))
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(s.policy.Sanitize(*in.Description))
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return nil
}

func storeError(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("Product not found")
	}
	return apperr.Internal(err)
}
