package grpc

import (
	"context"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/adapters/grpc/mappers"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/app"
)

// Server exposes the user application service as rpc.UserService. The REST
// surface mounts the same value.
type Server struct {
	svc *app.Service
}

var _ rpc.UserService = (*Server)(nil)

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Get(ctx context.Context, id string) (*rpc.User, error) {
	u, err := s.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return mappers.UserToRPC(u), nil
}

func (s *Server) Create(ctx context.Context, f *rpc.UserFields) (*rpc.User, error) {
	u, err := s.svc.Create(ctx, mappers.UserInputFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.UserToRPC(u), nil
}

func (s *Server) Update(ctx context.Context, id string, f *rpc.UserFields) (*rpc.User, error) {
	u, err := s.svc.Update(ctx, id, mappers.UserInputFromRPC(f))
	if err != nil {
		return nil, err
	}
	return mappers.UserToRPC(u), nil
}

func (s *Server) Delete(ctx context.Context, id string) error {
	return s.svc.Delete(ctx, id)
}

func (s *Server) List(ctx context.Context, req rpc.ListRequest) (*rpc.ListResponse[rpc.User], error) {
	users, total, err := s.svc.List(ctx, docstore.Query{Page: req.Page, Limit: req.Limit})
	if err != nil {
		return nil, err
	}
	return &rpc.ListResponse[rpc.User]{Items: mappers.UsersToRPC(users), Total: total}, nil
}
