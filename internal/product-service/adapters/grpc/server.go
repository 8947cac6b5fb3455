package grpc

import (
	"context"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/product-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-gateway/internal/product-service/app"
)

type Server struct {
	svc *app.Service
}

var _ rpc.ProductService = (*Server)(nil)

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Get(ctx context.Context, id string) (*rpc.Product, error) {
	p, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return mappers.ProductToRPC(p), nil
}

func (s *Server) Create(ctx context.Context, f *rpc.ProductFields) (*rpc.Product, error) {
	p, err := s.svc.Create(ctx, mappers.ProductInputFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.ProductToRPC(p), nil
}

func (s *Server) Update(ctx context.Context, id string, f *rpc.ProductFields) (*rpc.Product, error) {
	p, err := s.svc.Update(ctx, id, mappers.ProductInputFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.ProductToRPC(p), nil
}

func (s *Server) Delete(ctx context.Context, id string) error {
	return s.svc.Delete(ctx, id)
}

func (s *Server) List(ctx context.Context, req rpc.ListRequest) (*rpc.ListResponse[rpc.Product], error) {
	products, total, err := s.svc.List(ctx, docstore.Query{Page: req.Page, Limit: req.Limit})
	if err != nil {
		return nil, err
	}
	return &rpc.ListResponse[rpc.Product]{Items: mappers.ProductsToRPC(products), Total: total}, nil
}
