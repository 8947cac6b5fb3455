package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/routing"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// RouterDeps are the collaborators of the gateway HTTP surface.
type RouterDeps struct {
	Handler   *Handler
	Routing   *routing.Router
	Metrics   *middlewares.Metrics
	Gatherer  prometheus.Gatherer
	RateLimit func(http.Handler) http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(d.Metrics.Middleware)

	r.Get("/health", d.Handler.Health)
	r.Get("/status", d.Handler.Status)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		for _, name := range discovery.Services {
			h := d.Routing.Handler(name)
			base := "/api/" + name.Collection()
			r.Handle(base, h)
			r.Handle(base+"/*", h)
		}
	})
	return r
}
