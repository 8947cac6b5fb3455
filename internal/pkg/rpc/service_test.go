package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

type memProducts struct {
	items map[string]Product
}

func (m *memProducts) Get(_ context.Context, id string) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Product not found")
	}
	return &p, nil
}

func (m *memProducts) Create(_ context.Context, f *ProductFields) (*Product, error) {
	p := Product{ID: "new", Name: f.Name, Price: *f.Price, Stock: *f.Stock}
	m.items[p.ID] = p
	return &p, nil
}

func (m *memProducts) Update(ctx context.Context, id string, f *ProductFields) (*Product, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Stock != nil {
		p.Stock = *f.Stock
	}
	m.items[id] = *p
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("Product not found")
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) List(_ context.Context, _ ListRequest) (*ListResponse[Product], error) {
	out := &ListResponse[Product]{Total: int64(len(m.items))}
	for _, p := range m.items {
		out.Items = append(out.Items, p)
	}
	return out, nil
}

func newProductClient(t *testing.T, impl ProductService) ProductService {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		resp, err := h(ctx, req)
		return resp, apperr.ToStatus(err)
	}))
	RegisterProductServer(srv, impl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewProductClient(conn)
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newProductClient(t, &memProducts{items: map[string]Product{
		"1": {ID: "1", Name: "Laptop", Price: 1299.99, Stock: 50},
	}})

	p, err := client.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, 1299.99, p.Price)

	stock := 7
	p, err = client.Update(ctx, "1", &ProductFields{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	list, err := client.List(ctx, ListRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Items, 1)

	require.NoError(t, client.Delete(ctx, "1"))
}

func TestClientRestoresKinds(t *testing.T) {
	client := newProductClient(t, &memProducts{items: map[string]Product{}})

	_, err := client.Get(context.Background(), "404")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Product not found", apperr.PublicMessage(err))

	err = client.Delete(context.Background(), "404")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestClientTransportErrorIsUnavailable(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	_, err = NewProductClient(conn).Get(context.Background(), "1")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
