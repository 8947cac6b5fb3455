package ports

import (
	"context"
	"net/http"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// Resolver maps a service name to an address (the Registry Adapter).
type Resolver interface {
	Resolve(ctx context.Context, name discovery.ServiceName) (discovery.Address, error)
}

// Prober checks that a backend answers its health endpoint in time.
type Prober interface {
	Probe(ctx context.Context, addr discovery.Address) error
}

// Forwarder relays r to addr and copies the response to w. A non-nil error
// means nothing has been written to w.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, addr discovery.Address) error
}

// Fallback answers a request for a backend that cannot be reached.
type Fallback interface {
	Respond(w http.ResponseWriter, r *http.Request, service discovery.ServiceName)
}
