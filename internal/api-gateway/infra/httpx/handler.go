package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
)

// HealthFetcher fetches the health endpoint of a backend; the caller closes
// the body.
type HealthFetcher interface {
	Get(ctx context.Context, addr discovery.Address) (*http.Response, error)
}

// Handler serves the gateway's own endpoints.
type Handler struct {
	resolver ports.Resolver
	health   HealthFetcher
	state    discovery.State
	started  time.Time
	logger   *slog.Logger
}

func NewHandler(resolver ports.Resolver, health HealthFetcher, state discovery.State, started time.Time, logger *slog.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		health:   health,
		state:    state,
		started:  started,
		logger:   logger,
	}
}

// Health reports the gateway itself and never touches a backend.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Registry:      h.state.Label(),
		UptimeSeconds: h.uptime(),
	})
}

// Status probes every known backend concurrently.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	statuses := make([]ServiceStatus, len(discovery.Services))

	g, ctx := errgroup.WithContext(r.Context())
	for i, name := range discovery.Services {
		g.Go(func() error {
			statuses[i] = h.serviceStatus(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{
		Gateway: GatewayStatus{
			Status:        StatusOnline,
			UptimeSeconds: h.uptime(),
			Registry:      h.state.Label(),
		},
		Services: statuses,
	})
}

func (h *Handler) serviceStatus(ctx context.Context, name discovery.ServiceName) ServiceStatus {
	st := ServiceStatus{Name: name.RegistryName()}

	addr, err := h.resolver.Resolve(ctx, name)
	if err != nil {
		st.Status = StatusOffline
		st.Details = offlineDetails(err)
		return st
	}

	resp, err := h.health.Get(ctx, addr)
	if err != nil {
		h.logger.DebugContext(ctx, "status probe failed", "service", name.RegistryName(), "error", err)
		st.Status = StatusOffline
		st.Details = offlineDetails(err)
		return st
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		st.Status = StatusError
		st.Details = map[string]string{"error": "Service not responding properly"}
		return st
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		body = map[string]string{"error": "Invalid JSON response"}
	}
	st.Status = StatusOnline
	st.Details = body
	return st
}

func offlineDetails(err error) map[string]any {
	return map[string]any{
		"error":          err.Error(),
		"uptime_seconds": 0,
	}
}

func (h *Handler) uptime() float64 {
	return math.Round(time.Since(h.started).Seconds()*1000) / 1000
}
