package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/telemetry"
)

// InitTelemetry installs the default logger and the tracer of service. The
// returned func flushes pending spans and must run before exit.
func InitTelemetry(ctx context.Context, cfg *config.Config, service string) (*slog.Logger, func(), error) {
	logger := telemetry.InitLogger(telemetry.LoggerOptions{
		Service:   service,
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	shutdown, err := telemetry.SetupTracer(ctx, service, cfg.Telemetry.Endpoint, cfg.Environment)
	if err != nil {
		return logger, func() {}, err
	}
	return logger, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", "error", err)
		}
	}, nil
}

// NewRESTRouter is the chi router of a backend, already serving /health.
func NewRESTRouter(service string, started time.Time) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpx.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/health", httpx.Health(service, started))
	return r
}
