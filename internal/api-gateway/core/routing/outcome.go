package routing

import (
	"fmt"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

// Decision is what the router does with a request.
type Decision int

const (
	// Forward sends the request to Outcome.Address.
	Forward Decision = iota
	// Fallback hands the request to the fallback responder.
	Fallback
	// Misconfigured means the service cannot be routed at all, e.g. it has
	// no static address. It is not degraded.
	Misconfigured
)

func (d Decision) String() string {
	switch d {
	case Forward:
		return "forwarded"
	case Fallback:
		return "fallback"
	case Misconfigured:
		return "misconfigured"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// Outcome is the result of routing one request. Failures on the way are
// recorded in Reason instead of being returned as errors.
type Outcome struct {
	Decision Decision
	Service  discovery.ServiceName
	Address  discovery.Address
	Reason   error
}
