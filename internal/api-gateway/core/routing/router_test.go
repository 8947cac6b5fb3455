package routing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

type stubResolver struct {
	addr discovery.Address
	err  error
}

func (s stubResolver) Resolve(context.Context, discovery.ServiceName) (discovery.Address, error) {
	return s.addr, s.err
}

type stubProber struct {
	err   error
	calls int
}

func (s *stubProber) Probe(context.Context, discovery.Address) error {
	s.calls++
	return s.err
}

type stubForwarder struct {
	err   error
	calls int
}

func (s *stubForwarder) Forward(w http.ResponseWriter, _ *http.Request, _ discovery.Address) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	w.WriteHeader(http.StatusTeapot)
	return nil
}

type stubFallback struct{ calls int }

func (s *stubFallback) Respond(w http.ResponseWriter, _ *http.Request, _ discovery.ServiceName) {
	s.calls++
	w.WriteHeader(http.StatusAccepted)
}

var addr = discovery.Address{Host: "localhost", Port: 3002}

func quiet() Option { return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))) }

func TestRouteDecisions(t *testing.T) {
	tests := []struct {
		name     string
		resolver stubResolver
		probeErr error
		want     Decision
	}{
		{"healthy", stubResolver{addr: addr}, nil, Forward},
		{"probe fails", stubResolver{addr: addr}, errors.New("timeout"), Fallback},
		{"unknown service", stubResolver{err: apperr.New(apperr.KindConfiguration, "unknown service")}, nil, Misconfigured},
		{"resolver error", stubResolver{err: errors.New("boom")}, nil, Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.resolver, &stubProber{err: tt.probeErr}, &stubForwarder{}, &stubFallback{}, quiet())
			out := r.Route(context.Background(), discovery.Product)
			assert.Equal(t, tt.want, out.Decision)
			assert.Equal(t, discovery.Product, out.Service)
		})
	}
}

func TestHandlerProbesEveryRequest(t *testing.T) {
	prober := &stubProber{}
	fwd := &stubForwarder{}
	r := NewRouter(stubResolver{addr: addr}, prober, fwd, &stubFallback{}, quiet())
	h := r.Handler(discovery.Product)

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 3, prober.calls)
	assert.Equal(t, 3, fwd.calls)
}

func TestHandlerFallsBack(t *testing.T) {
	t.Run("probe failure", func(t *testing.T) {
		fwd := &stubForwarder{}
		fb := &stubFallback{}
		var seen []Decision
		r := NewRouter(stubResolver{addr: addr}, &stubProber{err: errors.New("refused")}, fwd, fb, quiet(),
			WithObserver(func(_ discovery.ServiceName, d Decision) { seen = append(seen, d) }))

		rec := httptest.NewRecorder()
		r.Handler(discovery.Product).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Zero(t, fwd.calls)
		assert.Equal(t, 1, fb.calls)
		assert.Equal(t, []Decision{Fallback}, seen)
	})

	t.Run("forward failure", func(t *testing.T) {
		fb := &stubFallback{}
		r := NewRouter(stubResolver{addr: addr}, &stubProber{}, &stubForwarder{err: errors.New("reset")}, fb, quiet())

		rec := httptest.NewRecorder()
		r.Handler(discovery.Product).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, 1, fb.calls)
	})
}

func TestHandlerMisconfigured(t *testing.T) {
	fb := &stubFallback{}
	r := NewRouter(stubResolver{err: apperr.New(apperr.KindConfiguration, "no address")}, &stubProber{}, &stubForwarder{}, fb, quiet())

	rec := httptest.NewRecorder()
	r.Handler(discovery.User).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, fb.calls)
	require.Contains(t, rec.Body.String(), "Service user-service unavailable")
}
