package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/interceptors"
)

// NewGRPCServer returns a server with the shared interceptor chain, tracing
// and the standard health service reporting SERVING.
func NewGRPCServer(logger *slog.Logger) *grpc.Server {
	opts := append(interceptors.ServerOptions(logger), grpc.StatsHandler(otelgrpc.NewServerHandler()))
	s := grpc.NewServer(opts...)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

// NewHTTPServer constructs a baseline http.Server with conservative defaults.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Multiplex serves gRPC and plain HTTP on one listener: HTTP/2 requests with
// a gRPC content type go to grpcServer, everything else to rest.
func Multiplex(grpcServer *grpc.Server, rest http.Handler) http.Handler {
	mux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc") {
			grpcServer.ServeHTTP(w, r)
			return
		}
		rest.ServeHTTP(w, r)
	})
	return h2c.NewHandler(mux, &http2.Server{})
}

// Backend describes one backend process.
type Backend struct {
	Name            discovery.ServiceName
	Address         discovery.Address
	GRPC            *grpc.Server
	REST            http.Handler
	Registrar       *discovery.Registrar
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Run serves b until ctx is done, registering it in the registry while it
// runs. Registration failure is logged and does not stop the service.
func (b Backend) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+strconv.Itoa(b.Address.Port))
	if err != nil {
		return fmt.Errorf("listen on %d: %w", b.Address.Port, err)
	}
	srv := NewHTTPServer(lis.Addr().String(), Multiplex(b.GRPC, b.REST))

	errCh := make(chan error, 1)
	go func() {
		b.Logger.Info("service running", "service", b.Name.RegistryName(), "addr", b.Address.String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	deregister := func() {}
	if b.Registrar != nil {
		d, err := b.Registrar.Register(ctx, discovery.Registration{
			Name:    b.Name.RegistryName(),
			Address: b.Address,
			Check:   discovery.CheckGRPC,
		})
		if err != nil {
			b.Logger.Error("registry registration failed", "error", err)
		} else {
			deregister = d
		}
	} else {
		b.Logger.Info("running without registry registration")
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			deregister()
			return fmt.Errorf("serve: %w", err)
		}
	}

	b.Logger.Info("shutting down", "service", b.Name.RegistryName())
	deregister()

	timeout := b.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// In-flight RPCs are HTTP requests here, so Shutdown drains them; the
	// handler transport does not support GracefulStop.
	err = srv.Shutdown(shutdownCtx)
	b.GRPC.Stop()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	b.Logger.Info("server exited cleanly")
	return nil
}
