// Package remote connects the order service to its siblings through the
// registry-aware dialer.
package remote

import (
	"context"

	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

type Clients struct {
	dialer *rpc.Dialer
}

var _ app.Clients = (*Clients)(nil)

func NewClients(dialer *rpc.Dialer) *Clients {
	return &Clients{dialer: dialer}
}

func (c *Clients) Products(ctx context.Context) (app.ProductReader, func() error, error) {
	return c.dialer.Products(ctx)
}

func (c *Clients) Users(ctx context.Context) (app.UserReader, func() error, error) {
	return c.dialer.Users(ctx)
}
