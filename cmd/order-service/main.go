package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	grpcadapter "github.com/jcmexdev/ecommerce-gateway/internal/order-service/adapters/grpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/adapters/remote"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-gateway/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/bootstrap"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "order-service",
	Short:        "Order backend; validates orders against the user and product services",
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

	name := discovery.Order
	logger, flush, err := bootstrap.InitTelemetry(ctx, cfg, name.RegistryName())
	if err != nil {
		return fmt.Errorf("failed to initialise tracer: %w", err)
	}
	defer flush()

	store, err := bootstrap.OpenStorage(ctx, cfg.Storage, name)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	// The registry state is probed once here and shared by lookups and
	// self-registration.
	registry := bootstrap.ConnectRegistry(cfg.Consul, logger)
	dialer := rpc.NewDialer(registry.Resolver(cfg.Services.StaticMap(), logger))

	svc := app.NewService(
		bootstrap.Collection[domain.Order](store, domain.Collection),
		remote.NewClients(dialer),
		bootstrap.NewCache(cfg.Redis, name.RegistryName()),
	)
	server := grpcadapter.NewServer(svc)

	grpcServer := bootstrap.NewGRPCServer(logger)
	rpc.RegisterOrderServer(grpcServer, server)

	rest := bootstrap.NewRESTRouter(name.RegistryName(), started)
	httpx.Resource[rpc.Order, rpc.OrderFields]{Collection: domain.Collection, Service: server}.Mount(rest)

	return bootstrap.Backend{
		Name:            name,
		Address:         cfg.Services.Order.Address(),
		GRPC:            grpcServer,
		REST:            rest,
		Registrar:       registry.Registrar(logger),
		ShutdownTimeout: cfg.Gateway.ShutdownTimeout,
		Logger:          logger,
	}.Run(ctx)
}
