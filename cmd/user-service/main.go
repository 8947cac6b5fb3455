package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/bootstrap"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
	grpcadapter "github.com/jcmexdev/ecommerce-gateway/internal/user-service/adapters/grpc"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/app"
	"github.com/jcmexdev/ecommerce-gateway/internal/user-service/domain"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "user-service",
	Short:        "User backend (gRPC and REST on one port)",
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

	name := discovery.User
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

	svc := app.NewService(bootstrap.Collection[domain.User](store, domain.Collection))
	server := grpcadapter.NewServer(svc)

	grpcServer := bootstrap.NewGRPCServer(logger)
	rpc.RegisterUserServer(grpcServer, server)

	rest := bootstrap.NewRESTRouter(name.RegistryName(), started)
	httpx.Resource[rpc.User, rpc.UserFields]{Collection: domain.Collection, Service: server}.Mount(rest)

	registry := bootstrap.ConnectRegistry(cfg.Consul, logger)
	return bootstrap.Backend{
		Name:            name,
		Address:         cfg.Services.User.Address(),
		GRPC:            grpcServer,
		REST:            rest,
		Registrar:       registry.Registrar(logger),
		ShutdownTimeout: cfg.Gateway.ShutdownTimeout,
		Logger:          logger,
	}.Run(ctx)
}
