// Package probe implements the liveness check the gateway runs before every
// forwarded request.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// HealthPath is probed on every backend.
const HealthPath = "/health"

const DefaultTimeout = time.Second

// HTTPProber issues GET <addr>/health and accepts any 2xx answer received
// within the timeout.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

var _ ports.Prober = (*HTTPProber)(nil)

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{
		client: &http.Client{
			// Redirects are a non-2xx answer.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		timeout: timeout,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, addr discovery.Address) error {
	resp, err := p.Get(ctx, addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("probe %s: unexpected status %d", addr, resp.StatusCode)
	}
	return nil
}

// Get fetches the health endpoint of addr. The caller owns the body, which
// must be read before the probe timeout elapses.
func (p *HTTPProber) Get(ctx context.Context, addr discovery.Address) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr.URL()+HealthPath, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("probe %s: %w", addr, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("probe %s: %w", addr, err)
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
