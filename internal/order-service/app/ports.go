package app

import (
	"context"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

type ProductReader interface {
	Get(ctx context.Context, id string) (*rpc.Product, error)
}

type UserReader interface {
	Get(ctx context.Context, id string) (*rpc.User, error)
}

// Clients opens connections to the sibling services. The returned close
// function releases the connection.
type Clients interface {
	Products(ctx context.Context) (ProductReader, func() error, error)
	Users(ctx context.Context) (UserReader, func() error, error)
}
