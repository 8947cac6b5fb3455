package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	consul "github.com/hashicorp/consul/api"
)

// ConsulConfig locates the registry agent.
type ConsulConfig struct {
	Enabled      bool
	Host         string
	Port         int
	ProbeTimeout time.Duration
}

// NewConsulClient builds a client for the agent at cfg.Host:cfg.Port. Calls
// are bounded only by their context.
func NewConsulClient(cfg ConsulConfig) (*consul.Client, error) {
	return newConsulClient(cfg, nil)
}

// NewLeaderStatus builds a status client for the startup check whose calls
// give up after cfg.ProbeTimeout (2s when unset).
func NewLeaderStatus(cfg ConsulConfig) (LeaderStatus, error) {
	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	client, err := newConsulClient(cfg, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, err
	}
	return client.Status(), nil
}

func newConsulClient(cfg ConsulConfig, hc *http.Client) (*consul.Client, error) {
	c := consul.DefaultConfig()
	c.Address = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	if hc != nil {
		c.HttpClient = hc
	}

	client, err := consul.NewClient(c)
	if err != nil {
		return nil, fmt.Errorf("consul: new client for %s: %w", c.Address, err)
	}
	return client, nil
}

// LeaderStatus is the part of the Consul status API used by the startup probe.
type LeaderStatus interface {
	Leader() (string, error)
}

// ProbeRegistry performs the one-shot connectivity check that decides the
// process-wide State. A nil status means the registry is disabled.
func ProbeRegistry(status LeaderStatus, logger *slog.Logger) State {
	if status == nil {
		logger.Info("registry disabled, using direct service routing")
		return Unavailable()
	}
	if _, err := status.Leader(); err != nil {
		logger.Warn("registry not available, using direct service routing", "error", err)
		return Unavailable()
	}
	logger.Info("connected to registry")
	return Available()
}

// ConsulCatalog adapts the Consul catalog to Catalog.
type ConsulCatalog struct {
	client *consul.Client
}

func NewConsulCatalog(client *consul.Client) *ConsulCatalog {
	return &ConsulCatalog{client: client}
}

func (c *ConsulCatalog) Instances(ctx context.Context, registryName string) ([]Address, error) {
	q := (&consul.QueryOptions{}).WithContext(ctx)
	entries, _, err := c.client.Catalog().Service(registryName, "", q)
	if err != nil {
		return nil, fmt.Errorf("consul: catalog %s: %w", registryName, err)
	}

	out := make([]Address, 0, len(entries))
	for _, e := range entries {
		host := e.ServiceAddress
		if host == "" {
			host = e.Address
		}
		out = append(out, Address{Host: host, Port: e.ServicePort})
	}
	return out, nil
}

// ServiceAgent is the subset of the Consul agent API used for self-registration.
type ServiceAgent interface {
	ServiceRegister(reg *consul.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

// CheckKind selects how the registry checks a registered instance.
type CheckKind int

const (
	CheckHTTP CheckKind = iota
	CheckGRPC
)

// Registration describes this process as a registry entry.
type Registration struct {
	Name    string
	Address Address
	Check   CheckKind
}

func (r Registration) id() string {
	return fmt.Sprintf("%s-%s-%d", r.Name, r.Address.Host, r.Address.Port)
}

// Registrar registers the running process in the registry. Registration is
// retried with exponential backoff since it happens once at startup and is
// not on any request path.
type Registrar struct {
	agent      ServiceAgent
	logger     *slog.Logger
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewRegistrar(agent ServiceAgent, logger *slog.Logger) *Registrar {
	return &Registrar{
		agent:      agent,
		logger:     logger,
		maxRetries: 5,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

// Register adds reg to the registry and returns a function that removes it.
func (r *Registrar) Register(ctx context.Context, reg Registration) (func(), error) {
	check := &consul.AgentServiceCheck{
		Interval:                       "10s",
		Timeout:                        "2s",
		DeregisterCriticalServiceAfter: "1m",
	}
	switch reg.Check {
	case CheckGRPC:
		check.GRPC = reg.Address.String()
	default:
		check.HTTP = reg.Address.URL() + "/health"
	}

	entry := &consul.AgentServiceRegistration{
		ID:      reg.id(),
		Name:    reg.Name,
		Address: reg.Address.Host,
		Port:    reg.Address.Port,
		Check:   check,
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	err := backoff.Retry(func() error {
		if err := r.agent.ServiceRegister(entry); err != nil {
			r.logger.Warn("registry registration attempt failed", "service", reg.Name, "error", err)
			return err
		}
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("consul: register %s: %w", entry.ID, err)
	}
	r.logger.Info("registered with registry", "service", reg.Name, "id", entry.ID)

	return func() {
		if err := r.agent.ServiceDeregister(entry.ID); err != nil {
			r.logger.Error("registry deregistration failed", "service", reg.Name, "error", err)
			return
		}
		r.logger.Info("deregistered from registry", "service", reg.Name)
	}, nil
}
