package setup

import (
	"fmt"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/gateway"
)

// Setup owns the mutable set of component descriptors and the gateway
// cache for one configuration. It is populated during the configure
// phase and consumed by finalize; both run on one goroutine.
type Setup struct {
	relations []*component.Descriptor
	commands  []*component.Descriptor
	mappers   []*component.Descriptor

	gateways     map[string]*gateway.Gateway
	gatewayOrder []string
}

// NewSetup creates an empty setup.
func NewSetup() *Setup {
	return &Setup{gateways: make(map[string]*gateway.Gateway)}
}

// AddRelation records a relation descriptor.
func (s *Setup) AddRelation(desc *component.Descriptor) {
	s.relations = append(s.relations, desc)
}

// AddCommand records a command descriptor.
func (s *Setup) AddCommand(desc *component.Descriptor) {
	s.commands = append(s.commands, desc)
}

// AddMapper records a mapper descriptor.
func (s *Setup) AddMapper(desc *component.Descriptor) {
	s.mappers = append(s.mappers, desc)
}

// Relations returns the recorded relation descriptors in declaration
// order.
func (s *Setup) Relations() []*component.Descriptor {
	return s.relations
}

// Commands returns the recorded command descriptors in declaration
// order.
func (s *Setup) Commands() []*component.Descriptor {
	return s.commands
}

// Mappers returns the recorded mapper descriptors in declaration order.
func (s *Setup) Mappers() []*component.Descriptor {
	return s.mappers
}

// AddGateway caches a built gateway under its name. Each name builds
// exactly once; a second build for the same name is a config error.
func (s *Setup) AddGateway(name string, gw *gateway.Gateway) error {
	if _, exists := s.gateways[name]; exists {
		return errors.WrapConfig(
			fmt.Errorf("gateway %q: %w", name, errors.ErrDuplicateGateway),
			"Setup", "AddGateway", "duplicate gateway check")
	}
	s.gateways[name] = gw
	s.gatewayOrder = append(s.gatewayOrder, name)
	return nil
}

// Gateway returns the cached gateway for a name.
func (s *Setup) Gateway(name string) (*gateway.Gateway, bool) {
	gw, ok := s.gateways[name]
	return gw, ok
}

// GatewayNames returns the built gateway names in build order.
func (s *Setup) GatewayNames() []string {
	out := make([]string, len(s.gatewayOrder))
	copy(out, s.gatewayOrder)
	return out
}
