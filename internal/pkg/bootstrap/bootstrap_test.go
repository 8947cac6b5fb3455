package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)) }

func TestMultiplexServesBothProtocols(t *testing.T) {
	rest := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("rest"))
	})
	srv := httptest.NewUnstartedServer(Multiplex(NewGRPCServer(quiet()), rest))
	srv.EnableHTTP2 = false
	srv.Start()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn, err := grpc.NewClient(srv.Listener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	out, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, out.GetStatus())
}

func TestConnectRegistryDisabled(t *testing.T) {
	reg := ConnectRegistry(config.ConsulConfig{Enabled: false}, quiet())
	assert.False(t, reg.State.Available())
	assert.Nil(t, reg.Registrar(quiet()))

	addr, err := reg.Resolver(discovery.StaticMap{discovery.User: {Host: "localhost", Port: 3001}}, quiet()).
		Resolve(context.Background(), discovery.User)
	require.NoError(t, err)
	assert.Equal(t, 3001, addr.Port)
}

type record struct {
	docstore.Meta `bson:",inline"`
	Name          string `json:"name" bson:"name"`
}

func TestOpenStorageSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := OpenStorage(ctx, config.StorageConfig{Driver: "sqlite", SQLiteDir: filepath.Join(t.TempDir(), "data")}, discovery.User)
	require.NoError(t, err)
	defer st.Close(ctx)

	c := Collection[record](st, "records")
	require.NoError(t, c.Insert(ctx, &record{Name: "a"}))
	_, total, err := c.Find(ctx, docstore.Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	_, err := OpenStorage(context.Background(), config.StorageConfig{Driver: "cassandra"}, discovery.User)
	assert.Error(t, err)
}

func TestRESTRouterServesHealth(t *testing.T) {
	r := NewRESTRouter("user-service", time.Now())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"user-service"`)
}
