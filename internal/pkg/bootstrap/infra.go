package bootstrap

import (
	"log/slog"

	consul "github.com/hashicorp/consul/api"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// Registry is the discovery context of a process: the registry state probed
// once at startup and the client used for lookups and registration.
type Registry struct {
	State  discovery.State
	Client *consul.Client
}

// ConnectRegistry builds the Consul client and runs the startup probe. Any
// failure leaves the process in fallback mode.
func ConnectRegistry(cfg config.ConsulConfig, logger *slog.Logger) Registry {
	if !cfg.Enabled {
		return Registry{State: discovery.ProbeRegistry(nil, logger)}
	}
	status, err := discovery.NewLeaderStatus(cfg.Discovery())
	if err != nil {
		logger.Warn("registry client unavailable", "error", err)
		return Registry{State: discovery.Unavailable()}
	}
	state := discovery.ProbeRegistry(status, logger)
	if !state.Available() {
		return Registry{State: state}
	}
	client, err := discovery.NewConsulClient(cfg.Discovery())
	if err != nil {
		logger.Warn("registry client unavailable", "error", err)
		return Registry{State: discovery.Unavailable()}
	}
	return Registry{State: state, Client: client}
}

// Resolver builds the Registry Adapter over r.
func (r Registry) Resolver(static discovery.StaticMap, logger *slog.Logger) *discovery.Resolver {
	var catalog discovery.Catalog
	if r.Client != nil {
		catalog = discovery.NewConsulCatalog(r.Client)
	}
	return discovery.NewResolver(r.State, catalog, static, discovery.WithLogger(logger))
}

// Registrar returns nil when the registry is unavailable.
func (r Registry) Registrar(logger *slog.Logger) *discovery.Registrar {
	if r.Client == nil {
		return nil
	}
	return discovery.NewRegistrar(r.Client.Agent(), logger)
}

// NewCache uses Redis when an address is configured and an in-process store
// otherwise.
func NewCache(cfg config.RedisConfig, service string) cache.Cache {
	if cfg.Addr != "" {
		return cache.NewRedisCache(cfg.Addr, service)
	}
	return cache.NewMemoryCache(service)
}
