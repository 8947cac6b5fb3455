package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

// State records whether the registry answered the startup probe. It is
// computed once and never re-evaluated for the life of the process.
type State struct {
	available bool
}

// Available returns a State for a reachable registry.
func Available() State { return State{available: true} }

// Unavailable returns a State that routes everything through the static map.
func Unavailable() State { return State{} }

func (s State) Available() bool { return s.available }

// Label is the human form used by the gateway health endpoints.
func (s State) Label() string {
	if s.available {
		return "connected"
	}
	return "fallback mode"
}

// Catalog lists the registered instances of a service.
type Catalog interface {
	Instances(ctx context.Context, registryName string) ([]Address, error)
}

// Resolver maps a ServiceName to an Address.
type Resolver struct {
	state   State
	catalog Catalog
	static  StaticMap
	logger  *slog.Logger
	pick    func(n int) int
}

type Option func(*Resolver)

// WithPicker overrides the instance selection; the default is uniform random.
func WithPicker(pick func(n int) int) Option {
	return func(r *Resolver) { r.pick = pick }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver builds a Resolver. catalog may be nil when state is unavailable.
func NewResolver(state State, catalog Catalog, static StaticMap, opts ...Option) *Resolver {
	r := &Resolver{
		state:   state,
		catalog: catalog,
		static:  static,
		logger:  slog.Default(),
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) State() State { return r.state }

// Resolve returns an address for name. Unknown names fail with a
// configuration error before any I/O. Registry failures are logged and
// answered from the static map.
func (r *Resolver) Resolve(ctx context.Context, name ServiceName) (Address, error) {
	if !name.Valid() {
		return Address{}, unknownService(string(name))
	}

	if !r.state.Available() || r.catalog == nil {
		return r.staticAddress(name)
	}

	addr, err := r.lookup(ctx, name)
	if err == nil {
		return addr, nil
	}

	r.logger.ErrorContext(ctx, "registry lookup failed, using static address",
		"service", name.RegistryName(), "error", err)
	return r.staticAddress(name)
}

func (r *Resolver) lookup(ctx context.Context, name ServiceName) (Address, error) {
	instances, err := r.catalog.Instances(ctx, name.RegistryName())
	if err != nil {
		return Address{}, err
	}
	if len(instances) == 0 {
		return Address{}, fmt.Errorf("service %s not found in registry", name.RegistryName())
	}
	return instances[r.pick(len(instances))], nil
}

func (r *Resolver) staticAddress(name ServiceName) (Address, error) {
	addr, ok := r.static[name]
	if !ok {
		return Address{}, apperr.New(apperr.KindConfiguration, "no static address configured for %s", name)
	}
	return addr, nil
}
