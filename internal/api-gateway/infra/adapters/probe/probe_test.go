package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

func addressOf(t *testing.T, srv *httptest.Server) discovery.Address {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return discovery.Address{Host: host, Port: p}
}

func healthServer(t *testing.T, h http.HandlerFunc) discovery.Address {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return addressOf(t, srv)
}

func TestProbeHealthy(t *testing.T) {
	var path string
	addr := healthServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, NewHTTPProber(time.Second).Probe(context.Background(), addr))
	assert.Equal(t, HealthPath, path)
}

func TestProbeFailures(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		addr := healthServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Error(t, NewHTTPProber(time.Second).Probe(context.Background(), addr))
	})

	t.Run("redirect", func(t *testing.T) {
		addr := healthServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		})
		assert.Error(t, NewHTTPProber(time.Second).Probe(context.Background(), addr))
	})

	t.Run("slow", func(t *testing.T) {
		release := make(chan struct{})
		addr := healthServer(t, func(w http.ResponseWriter, _ *http.Request) {
			<-release
		})
		defer close(release)

		start := time.Now()
		err := NewHTTPProber(50 * time.Millisecond).Probe(context.Background(), addr)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := addressOf(t, srv)
		srv.Close()
		assert.Error(t, NewHTTPProber(time.Second).Probe(context.Background(), addr))
	})
}

func TestNewHTTPProberDefaultsTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewHTTPProber(0).timeout)
}
