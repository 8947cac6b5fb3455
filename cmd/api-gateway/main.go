package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/fallback"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/routing"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/infra/adapters/probe"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/infra/adapters/proxy"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/infra/httpx"
	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/bootstrap"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

const serviceName = "api-gateway"

var configPath string

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "HTTP gateway with health-gated routing and synthetic fallback responses",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	started := time.Now()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, flush, err := bootstrap.InitTelemetry(ctx, cfg, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialise tracer: %w", err)
	}
	defer flush()

	dataset, err := fallback.DefaultDataset()
	if err != nil {
		return err
	}

	registry := bootstrap.ConnectRegistry(cfg.Consul, logger)
	resolver := registry.Resolver(cfg.Services.StaticMap(), logger)
	prober := probe.NewHTTPProber(cfg.Gateway.ProbeTimeout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middlewares.NewMetrics(reg)

	router := routing.NewRouter(resolver, prober, proxy.NewForwarder(proxy.WithLogger(logger)), fallback.NewResponder(dataset),
		routing.WithLogger(logger),
		routing.WithObserver(metrics.ObserveUpstream),
	)

	limiter := middlewares.RateLimit(
		bootstrap.NewCache(cfg.Redis, serviceName),
		middlewares.RateLimitConfig{
			Max:      cfg.RateLimit.Max,
			Window:   cfg.RateLimit.Window,
			Disabled: cfg.Development(),
		},
		logger,
	)

	handler := httpx.NewRouter(httpx.RouterDeps{
		Handler:   httpx.NewHandler(resolver, prober, registry.State, started, logger),
		Routing:   router,
		Metrics:   metrics,
		Gatherer:  reg,
		RateLimit: limiter,
	})

	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Gateway.Port))
	if err != nil {
		return fmt.Errorf("listen on %d: %w", cfg.Gateway.Port, err)
	}
	srv := bootstrap.NewHTTPServer(lis.Addr().String(), handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api gateway running", "port", cfg.Gateway.Port, "registry", registry.State.Label())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	deregister := func() {}
	if registrar := registry.Registrar(logger); registrar != nil {
		d, err := registrar.Register(ctx, discovery.Registration{
			Name:    serviceName,
			Address: discovery.Address{Host: cfg.Gateway.Host, Port: cfg.Gateway.Port},
			Check:   discovery.CheckHTTP,
		})
		if err != nil {
			logger.Error("registry registration failed", "error", err)
		} else {
			deregister = d
		}
	}
	defer deregister()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	logger.Info("shutting down api gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited cleanly")
	return nil
}
