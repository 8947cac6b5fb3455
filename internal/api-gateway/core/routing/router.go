// Package routing is the health-gated router: resolve, probe, then forward
// or fall back. Probe results are never cached.
package routing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
)

type Router struct {
	resolver  ports.Resolver
	prober    ports.Prober
	forwarder ports.Forwarder
	fallback  ports.Fallback
	logger    *slog.Logger
	observe   func(discovery.ServiceName, Decision)
}

type Option func(*Router)

func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithObserver is called once per routed request with its final decision.
func WithObserver(fn func(discovery.ServiceName, Decision)) Option {
	return func(r *Router) { r.observe = fn }
}

func NewRouter(resolver ports.Resolver, prober ports.Prober, forwarder ports.Forwarder, fallback ports.Fallback, opts ...Option) *Router {
	r := &Router{
		resolver:  resolver,
		prober:    prober,
		forwarder: forwarder,
		fallback:  fallback,
		logger:    slog.Default(),
		observe:   func(discovery.ServiceName, Decision) {},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Route decides where a request for service goes.
func (r *Router) Route(ctx context.Context, service discovery.ServiceName) Outcome {
	addr, err := r.resolver.Resolve(ctx, service)
	if err != nil {
		if apperr.Is(err, apperr.KindConfiguration) {
			return Outcome{Decision: Misconfigured, Service: service, Reason: err}
		}
		return Outcome{Decision: Fallback, Service: service, Reason: err}
	}
	if err := r.prober.Probe(ctx, addr); err != nil {
		return Outcome{Decision: Fallback, Service: service, Address: addr, Reason: err}
	}
	return Outcome{Decision: Forward, Service: service, Address: addr}
}

// Handler routes every request it receives to service.
func (r *Router) Handler(service discovery.ServiceName) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.serve(w, req, service)
	})
}

func (r *Router) serve(w http.ResponseWriter, req *http.Request, service discovery.ServiceName) {
	ctx := req.Context()
	out := r.Route(ctx, service)

	if out.Decision == Forward {
		r.logger.InfoContext(ctx, "routing request",
			"method", req.Method, "path", req.URL.Path, "service", service, "addr", out.Address.String())
		err := r.forwarder.Forward(w, req, out.Address)
		if err == nil {
			r.observe(service, Forward)
			return
		}
		out = Outcome{Decision: Fallback, Service: service, Address: out.Address, Reason: err}
	}

	switch out.Decision {
	case Fallback:
		r.logger.WarnContext(ctx, "service not available, using fallback data",
			"service", service, "error", out.Reason)
		r.fallback.Respond(w, req, service)
	default:
		r.logger.ErrorContext(ctx, "cannot route request", "service", service, "error", out.Reason)
		httpx.WriteError(w, http.StatusServiceUnavailable, "Service "+service.RegistryName()+" unavailable", "")
	}
	r.observe(service, out.Decision)
}
