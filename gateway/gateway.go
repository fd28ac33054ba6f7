package gateway

import (
	"fmt"

	"github.com/wilsonsilva/rom/errors"
)

// Gateway is a named, adapter-backed connection handle. One gateway is
// shared by every relation that declares it; its lifetime is bound to
// the configuration that built it. Gateways are read-only after
// construction and safe for concurrent use by consumers.
type Gateway struct {
	name    string
	adapter Adapter
}

// New wraps an adapter instance as a named gateway.
func New(name string, adapter Adapter) *Gateway {
	return &Gateway{name: name, adapter: adapter}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return g.name
}

// Adapter returns the backing adapter.
func (g *Gateway) Adapter() Adapter {
	return g.adapter
}

// Connection returns the adapter's backend connection handle.
func (g *Gateway) Connection() Connection {
	return g.adapter.Connection()
}

// Schema returns the dataset names the backing adapter supplies.
func (g *Gateway) Schema() []string {
	return g.adapter.Schema()
}

// Dataset looks up a dataset by name. An unknown name is a lookup
// error, distinguishable from configuration errors via errors.IsNotFound.
func (g *Gateway) Dataset(name string) (Dataset, error) {
	ds, ok := g.adapter.Dataset(name)
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("dataset %q on gateway %q: %w", name, g.name, errors.ErrDatasetNotFound),
			"Gateway", "Dataset", "dataset lookup")
	}
	return ds, nil
}
