package fallback

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

//go:embed dataset.yaml
var defaultDataset []byte

// Record is one synthetic entity, serialized as-is.
type Record map[string]any

// ID returns the record's "id" field as a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Dataset holds the synthetic records per service. It is never modified
// after loading.
type Dataset struct {
	records map[discovery.ServiceName][]Record
}

// DefaultDataset returns the embedded dataset.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(defaultDataset)
}

// ParseDataset reads a YAML document keyed by collection name ("users",
// "products", "orders").
func ParseDataset(raw []byte) (*Dataset, error) {
	var doc map[string][]Record
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("fallback: parse dataset: %w", err)
	}

	ds := &Dataset{records: make(map[discovery.ServiceName][]Record, len(discovery.Services))}
	for _, name := range discovery.Services {
		ds.records[name] = doc[name.Collection()]
	}
	return ds, nil
}

// All returns the records of service.
func (d *Dataset) All(service discovery.ServiceName) []Record {
	return d.records[service]
}

// Find looks up a record of service by id.
func (d *Dataset) Find(service discovery.ServiceName, id string) (Record, bool) {
	for _, r := range d.records[service] {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}
