// Package discovery resolves logical service names to network addresses.
//
// The registry (Consul) is consulted only when it answered the one-shot probe
// made at startup; otherwise, and whenever a lookup fails, the static map
// built from configuration is used.
package discovery

import (
	"net"
	"strconv"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/apperr"
)

// ServiceName is the closed set of backends known to the system.
type ServiceName string

const (
	User    ServiceName = "user"
	Product ServiceName = "product"
	Order   ServiceName = "order"
)

// Services lists every known backend in a stable order.
var Services = []ServiceName{User, Product, Order}

// Valid reports whether n belongs to the closed enumeration.
func (n ServiceName) Valid() bool {
	switch n {
	case User, Product, Order:
		return true
	}
	return false
}

// RegistryName is the name the service registers under in the registry.
func (n ServiceName) RegistryName() string { return string(n) + "-service" }

// Collection is the REST collection name, e.g. "products".
func (n ServiceName) Collection() string { return string(n) + "s" }

// Parse maps either form ("product" or "product-service") to a ServiceName.
func Parse(s string) (ServiceName, error) {
	for _, n := range Services {
		if s == string(n) || s == n.RegistryName() {
			return n, nil
		}
	}
	return "", unknownService(s)
}

func unknownService(name string) error {
	return apperr.New(apperr.KindConfiguration, "unknown service: %s", name)
}

// Address is a resolved, ephemeral host:port pair.
type Address struct {
	Host string
	Port int
}

func (a Address) String() string { return net.JoinHostPort(a.Host, strconv.Itoa(a.Port)) }

// URL returns the plain-HTTP base URL of the address.
func (a Address) URL() string { return "http://" + a.String() }

// StaticMap is the configured address of every service.
type StaticMap map[ServiceName]Address
