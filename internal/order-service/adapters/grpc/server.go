package grpc

import (
	"context"

	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

type Server struct {
	svc *app.Service
}

var _ rpc.OrderService = (*Server)(nil)

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Get(ctx context.Context, id string) (*rpc.Order, error) {
	o, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return mappers.OrderToRPC(o), nil
}

func (s *Server) Create(ctx context.Context, f *rpc.OrderFields) (*rpc.Order, error) {
	o, err := s.svc.Create(ctx, mappers.CreateRequestFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.OrderToRPC(o), nil
}

func (s *Server) Update(ctx context.Context, id string, f *rpc.OrderFields) (*rpc.Order, error) {
	o, err := s.svc.Update(ctx, id, mappers.UpdateRequestFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.OrderToRPC(o), nil
}

func (s *Server) Delete(ctx context.Context, id string) error {
	return s.svc.Delete(ctx, id)
}

func (s *Server) List(ctx context.Context, req rpc.ListRequest) (*rpc.ListResponse[rpc.Order], error) {
	orders, total, err := s.svc.List(ctx, domain.ListFilter{Page: req.Page, Limit: req.Limit, UserID: req.UserID})
	if err != nil {
		return nil, err
	}
	return &rpc.ListResponse[rpc.Order]{Items: mappers.OrdersToRPC(orders), Total: total}, nil
}
