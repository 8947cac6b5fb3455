package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore/sqlite"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

type staticClients struct{}

type staticProducts struct{}

func (staticProducts) Get(_ context.Context, id string) (*rpc.Product, error) {
	if id != "1" {
		return nil, apperr.NotFound("Product not found")
	}
	return &rpc.Product{ID: "1", Name: "Laptop", Price: 1299.99, Stock: 50}, nil
}

type staticUsers struct{}

func (staticUsers) Get(_ context.Context, id string) (*rpc.User, error) {
	return &rpc.User{ID: id}, nil
}

func (staticClients) Products(context.Context) (app.ProductReader, func() error, error) {
	return staticProducts{}, func() error { return nil }, nil
}

func (staticClients) Users(context.Context) (app.UserReader, func() error, error) {
	return staticUsers{}, func() error { return nil }, nil
}

func newClient(t *testing.T) rpc.OrderService {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := app.NewService(sqlite.NewCollection[domain.Order](db, domain.Collection), staticClients{}, cache.NewMemoryCache("order"))

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(interceptors.ServerOptions(testLogger())...)
	rpc.RegisterOrderServer(srv, NewServer(svc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return rpc.NewOrderClient(conn)
}

func TestOrderServerOverGRPC(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)

	order, err := client.Create(ctx, &rpc.OrderFields{
		UserID:          "u1",
		Items:           []rpc.OrderItem{{ProductID: "1", Quantity: 2, Price: 0.01}},
		ShippingAddress: "123 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, 2599.98, order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 1299.99, order.Items[0].Price)

	got, err := client.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	upd, err := client.Update(ctx, order.ID, &rpc.OrderFields{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, "shipped", upd.Status)

	list, err := client.List(ctx, rpc.ListRequest{UserID: "u1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)

	require.NoError(t, client.Delete(ctx, order.ID))
	_, err = client.Get(ctx, order.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Order not found", apperr.PublicMessage(err))
}

func TestOrderServerErrorKinds(t *testing.T) {
	client := newClient(t)

	_, err := client.Create(context.Background(), &rpc.OrderFields{
		UserID: "u1",
		Items:  []rpc.OrderItem{{ProductID: "1", Quantity: 500}},
	})
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	_, err = client.Create(context.Background(), &rpc.OrderFields{UserID: "u1"})
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestIdempotencyKeyFromMetadata(t *testing.T) {
	client := newClient(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-idempotency-key", "abc")
	fields := &rpc.OrderFields{UserID: "u1", Items: []rpc.OrderItem{{ProductID: "1", Quantity: 1}}}

	a, err := client.Create(ctx, fields)
	require.NoError(t, err)
	b, err := client.Create(ctx, fields)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}
