package rpc

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
)

// Dialer opens a connection to a sibling service, resolving its address
// through the registry on every call.
type Dialer struct {
	resolver *discovery.Resolver
	opts     []grpc.DialOption
}

func NewDialer(resolver *discovery.Resolver, opts ...grpc.DialOption) *Dialer {
	base := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(interceptors.PropagationClientInterceptor()),
	}
	return &Dialer{resolver: resolver, opts: append(base, opts...)}
}

// Dial resolves name and creates a client connection. The connection is
// lazy, so a dead backend only surfaces on the first call.
func (d *Dialer) Dial(ctx context.Context, name discovery.ServiceName) (*grpc.ClientConn, error) {
	addr, err := d.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	conn, err := grpc.NewClient(addr.String(), d.opts...)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s at %s: %w", name, addr, err)
	}
	return conn, nil
}

func (d *Dialer) Users(ctx context.Context) (UserService, func() error, error) {
	conn, err := d.Dial(ctx, discovery.User)
	if err != nil {
		return nil, nil, err
	}
	return NewUserClient(conn), conn.Close, nil
}

func (d *Dialer) Products(ctx context.Context) (ProductService, func() error, error) {
	conn, err := d.Dial(ctx, discovery.Product)
	if err != nil {
		return nil, nil, err
	}
	return NewProductClient(conn), conn.Close, nil
}

func (d *Dialer) Orders(ctx context.Context) (OrderService, func() error, error) {
	conn, err := d.Dial(ctx, discovery.Order)
	if err != nil {
		return nil, nil, err
	}
	return NewOrderClient(conn), conn.Close, nil
}
