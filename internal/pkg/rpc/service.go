// Package rpc is the remote-call surface shared by the backend services.
//
// Every service exposes the same five operations over gRPC, so a single
// generic Entity interface describes them and ServiceDesc builds the gRPC
// descriptor by hand. Messages are plain structs encoded with the JSON codec
// registered in codec.go.
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

// Entity is the capability every backend service implements.
type Entity[E, F any] interface {
	Get(ctx context.Context, id string) (*E, error)
	Create(ctx context.Context, fields *F) (*E, error)
	Update(ctx context.Context, id string, fields *F) (*E, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, req ListRequest) (*ListResponse[E], error)
}

type (
	UserService    = Entity[User, UserFields]
	ProductService = Entity[Product, ProductFields]
	OrderService   = Entity[Order, OrderFields]
)

const (
	UserServiceName    = "ecommerce.UserService"
	ProductServiceName = "ecommerce.ProductService"
	OrderServiceName   = "ecommerce.OrderService"
)

// ServiceDesc describes an Entity implementation registered under service.
func ServiceDesc[E, F any](service string) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*Entity[E, F])(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Get", Handler: handler(service, "Get", func(s Entity[E, F], ctx context.Context, r *IDRequest) (any, error) {
				return s.Get(ctx, r.ID)
			})},
			{MethodName: "Create", Handler: handler(service, "Create", func(s Entity[E, F], ctx context.Context, r *F) (any, error) {
				return s.Create(ctx, r)
			})},
			{MethodName: "Update", Handler: handler(service, "Update", func(s Entity[E, F], ctx context.Context, r *UpdateRequest[F]) (any, error) {
				return s.Update(ctx, r.ID, &r.Fields)
			})},
			{MethodName: "Delete", Handler: handler(service, "Delete", func(s Entity[E, F], ctx context.Context, r *IDRequest) (any, error) {
				if err := s.Delete(ctx, r.ID); err != nil {
					return nil, err
				}
				return &DeleteResponse{Success: true}, nil
			})},
			{MethodName: "List", Handler: handler(service, "List", func(s Entity[E, F], ctx context.Context, r *ListRequest) (any, error) {
				return s.List(ctx, *r)
			})},
		},
		Metadata: "ecommerce.json",
	}
}

func handler[E, F, Req any](service, method string, call func(Entity[E, F], context.Context, *Req) (any, error)) grpc.MethodHandler {
	fullMethod := "/" + service + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(Entity[E, F])
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		})
	}
}

func RegisterUserServer(s grpc.ServiceRegistrar, impl UserService) {
	s.RegisterService(ServiceDesc[User, UserFields](UserServiceName), impl)
}

func RegisterProductServer(s grpc.ServiceRegistrar, impl ProductService) {
	s.RegisterService(ServiceDesc[Product, ProductFields](ProductServiceName), impl)
}

func RegisterOrderServer(s grpc.ServiceRegistrar, impl OrderService) {
	s.RegisterService(ServiceDesc[Order, OrderFields](OrderServiceName), impl)
}

// Client calls an Entity over a connection. Status errors are converted
// back into apperr kinds; transport failures come back as KindUnavailable.
type Client[E, F any] struct {
	cc      grpc.ClientConnInterface
	service string
}

var _ UserService = (*Client[User, UserFields])(nil)

func NewClient[E, F any](cc grpc.ClientConnInterface, service string) *Client[E, F] {
	return &Client[E, F]{cc: cc, service: service}
}

func NewUserClient(cc grpc.ClientConnInterface) *Client[User, UserFields] {
	return NewClient[User, UserFields](cc, UserServiceName)
}

func NewProductClient(cc grpc.ClientConnInterface) *Client[Product, ProductFields] {
	return NewClient[Product, ProductFields](cc, ProductServiceName)
}

func NewOrderClient(cc grpc.ClientConnInterface) *Client[Order, OrderFields] {
	return NewClient[Order, OrderFields](cc, OrderServiceName)
}

func (c *Client[E, F]) Get(ctx context.Context, id string) (*E, error) {
	out := new(E)
	if err := c.invoke(ctx, "Get", &IDRequest{ID: id}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client[E, F]) Create(ctx context.Context, fields *F) (*E, error) {
	out := new(E)
	if err := c.invoke(ctx, "Create", fields, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client[E, F]) Update(ctx context.Context, id string, fields *F) (*E, error) {
	out := new(E)
	if err := c.invoke(ctx, "Update", &UpdateRequest[F]{ID: id, Fields: *fields}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client[E, F]) Delete(ctx context.Context, id string) error {
	return c.invoke(ctx, "Delete", &IDRequest{ID: id}, new(DeleteResponse))
}

func (c *Client[E, F]) List(ctx context.Context, req ListRequest) (*ListResponse[E], error) {
	out := new(ListResponse[E])
	if err := c.invoke(ctx, "List", &req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client[E, F]) invoke(ctx context.Context, method string, in, out any) error {
	err := c.cc.Invoke(ctx, "/"+c.service+"/"+method, in, out, grpc.CallContentSubtype(CodecName))
	return apperr.FromStatus(err)
}
