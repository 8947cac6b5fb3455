// Package proxy relays gateway requests to a resolved backend.
package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// Forwarder sends the request unmodified (method, path, query, headers and
// body) to the target address and copies the backend response verbatim.
// Hop-by-hop headers are dropped as HTTP requires. Client-sent forwarding
// headers pass through as received; none are added.
type Forwarder struct {
	transport http.RoundTripper
	logger    *slog.Logger
}

var _ ports.Forwarder = (*Forwarder)(nil)

// ReverseProxy strips these before Rewrite runs.
var forwardingHeaders = []string{"Forwarded", "X-Forwarded-For", "X-Forwarded-Host", "X-Forwarded-Proto"}

type Option func(*Forwarder)

func WithTransport(rt http.RoundTripper) Option {
	return func(f *Forwarder) { f.transport = rt }
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) { f.logger = l }
}

func NewForwarder(opts ...Option) *Forwarder {
	f := &Forwarder{
		transport: http.DefaultTransport,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Forward returns the transport error when the backend could not be reached,
// in which case nothing has been written to w.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, addr discovery.Address) error {
	target := &url.URL{Scheme: "http", Host: addr.String()}

	var failed error
	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.Host = pr.In.Host
			for _, h := range forwardingHeaders {
				if v, ok := pr.In.Header[h]; ok {
					pr.Out.Header[h] = append([]string(nil), v...)
				}
			}
		},
		Transport: f.transport,
		ErrorHandler: func(_ http.ResponseWriter, req *http.Request, err error) {
			f.logger.WarnContext(req.Context(), "forward failed", "addr", addr.String(), "error", err)
			failed = err
		},
	}
	rp.ServeHTTP(w, r)
	return failed
}
