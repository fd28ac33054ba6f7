package setup

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/config"
	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/gateway"
	"github.com/wilsonsilva/rom/metric"
	"github.com/wilsonsilva/rom/notify"
	"github.com/wilsonsilva/rom/plugin"
)

// DefaultGateway is the gateway name that determines the
// configuration-wide default adapter.
const DefaultGateway = "default"

// Configuration is the top-level facade. It owns a Setup, a settings
// tree and a notification bus, and walks the lifecycle from declaration
// to a finalized, read-only component graph.
type Configuration struct {
	id     string
	logger *slog.Logger
	state  State

	setup *Setup
	tree  *config.Tree
	bus   *notify.Bus

	plugins       *plugin.Registry
	adapters      *gateway.Catalog
	registrations *notify.Registrations
	enabled       []string

	// Gateway definitions captured by Configure, keyed by name, with
	// the resolved build order alongside.
	defs     config.GatewayDefs
	defOrder []string
	entries  map[string]*gateway.Entry

	metrics *lifecycleMetrics

	relations *RelationRegistry
	commands  *CommandRegistry
	mappers   *MapperRegistry
}

// Option configures a Configuration at construction
type Option func(*Configuration)

// WithLogger sets the logger used for lifecycle milestones.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Configuration) { c.logger = logger }
}

// WithMetrics enables lifecycle metrics on the given registry.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(c *Configuration) {
		metrics, err := newLifecycleMetrics(registry)
		if err != nil {
			c.logger.Error("Failed to initialize lifecycle metrics", "error", err)
			metrics = nil // Continue without metrics
		}
		c.metrics = metrics
	}
}

// WithPlugins overrides the plugin registry (defaults to plugin.Default).
func WithPlugins(registry *plugin.Registry) Option {
	return func(c *Configuration) { c.plugins = registry }
}

// WithAdapters overrides the adapter catalog (defaults to gateway.Default).
func WithAdapters(catalog *gateway.Catalog) Option {
	return func(c *Configuration) { c.adapters = catalog }
}

// WithListeners overrides the process-wide listener table the bus is
// scoped from (defaults to notify.Default).
func WithListeners(registrations *notify.Registrations) Option {
	return func(c *Configuration) { c.registrations = registrations }
}

// New creates a Configuration in the declaring state.
func New(opts ...Option) *Configuration {
	c := &Configuration{
		id:            uuid.NewString(),
		logger:        slog.Default(),
		state:         StateDeclaring,
		setup:         NewSetup(),
		tree:          config.NewTree(),
		bus:           notify.NewBus(busEvents()...),
		plugins:       plugin.Default,
		adapters:      gateway.Default,
		registrations: notify.Default,
		entries:       make(map[string]*gateway.Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the configuration instance identifier used in logs.
func (c *Configuration) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Configuration) State() State {
	return c.state
}

// Config returns the settings tree, mutable until Configure freezes it.
func (c *Configuration) Config() *config.Tree {
	return c.tree
}

// Bus returns the configuration's notification bus.
func (c *Configuration) Bus() *notify.Bus {
	return c.bus
}

// Setup returns the owned setup.
func (c *Configuration) Setup() *Setup {
	return c.setup
}

// Configure moves the configuration from declaring to frozen: gateway
// definitions are normalized into the settings tree, adapters are
// loaded eagerly (so plugins they register exist before declarations
// run), the user block mutates the configuration, the tree freezes, and
// gateways are built from the frozen settings.
func (c *Configuration) Configure(defs config.GatewayDefs, block func(*Configuration) error) error {
	if c.state != StateDeclaring {
		return errors.WrapConfig(
			fmt.Errorf("state %s: %w", c.state, errors.ErrInvalidState),
			"Configuration", "Configure", "state check")
	}

	if err := c.normalizeGateways(defs); err != nil {
		return err
	}
	if err := c.loadAdapters(); err != nil {
		return err
	}

	c.state = StateConfigured
	c.logger.Debug("Configuration configured", "configuration", c.id, "gateways", c.defOrder)

	if block != nil {
		if err := block(c); err != nil {
			return errors.WrapConfig(err, "Configuration", "Configure", "user block")
		}
	}

	c.tree.Freeze()

	if err := c.validateGatewaySettings(); err != nil {
		return err
	}
	if err := c.loadGateways(); err != nil {
		return err
	}

	c.state = StateFrozen
	return nil
}

// ConfigureFile is Configure with gateway definitions read from a YAML
// file.
func (c *Configuration) ConfigureFile(path string, block func(*Configuration) error) error {
	defs, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	return c.Configure(defs, block)
}

// normalizeGateways captures gateway definitions into the settings tree
// and resolves the build order: the default gateway first, then the
// rest sorted by name. Definitions without an adapter tag inherit the
// default gateway's adapter; with no default to inherit from, that is a
// config error.
func (c *Configuration) normalizeGateways(defs config.GatewayDefs) error {
	c.defs = make(config.GatewayDefs, len(defs))
	c.defOrder = c.defOrder[:0]

	names := make([]string, 0, len(defs))
	for name := range defs {
		if name == "" {
			return errors.WrapConfig(
				fmt.Errorf("empty gateway name: %w", errors.ErrInvalidGateway),
				"Configuration", "Configure", "gateway name validation")
		}
		if name != DefaultGateway {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, hasDefault := defs[DefaultGateway]; hasDefault {
		c.defOrder = append(c.defOrder, DefaultGateway)
	}
	c.defOrder = append(c.defOrder, names...)

	defaultAdapter := defs[DefaultGateway].Adapter

	for _, name := range c.defOrder {
		def := defs[name]
		if def.Adapter == "" {
			if defaultAdapter == "" {
				return errors.WrapConfig(
					fmt.Errorf("gateway %q: %w", name, errors.ErrNoDefaultAdapter),
					"Configuration", "Configure", "adapter resolution")
			}
			def.Adapter = defaultAdapter
		}
		c.defs[name] = def

		if err := c.tree.Set("gateways."+name+".adapter", def.Adapter); err != nil {
			return err
		}
		for key, value := range def.Settings {
			if err := c.tree.Set("gateways."+name+"."+key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// loadAdapters eagerly loads every referenced adapter, running load
// hooks that may register plugins and listeners.
func (c *Configuration) loadAdapters() error {
	for _, name := range c.defOrder {
		def := c.defs[name]
		entry, err := c.adapters.Load(def.Adapter)
		if err != nil {
			return errors.Wrap(err, "Configuration", "Configure", fmt.Sprintf("gateway %q adapter load", name))
		}
		c.entries[name] = entry
	}
	return nil
}

// validateGatewaySettings checks frozen settings against each adapter's
// advertised schema before any connection is opened.
func (c *Configuration) validateGatewaySettings() error {
	for _, name := range c.defOrder {
		entry := c.entries[name]
		if entry.Schema == nil {
			continue
		}
		settings := c.gatewaySettings(name)
		if errs := gateway.ValidateConfig(settings, *entry.Schema); len(errs) > 0 {
			return errors.WrapConfig(
				fmt.Errorf("gateway %q settings: %s", name, errs[0].Message),
				"Configuration", "Configure", "settings validation")
		}
	}
	return nil
}

// loadGateways builds every declared gateway from the frozen settings,
// caching each by name.
func (c *Configuration) loadGateways() error {
	for _, name := range c.defOrder {
		entry := c.entries[name]
		adapter, err := entry.Setup(c.gatewaySettings(name))
		if err != nil {
			return errors.WrapConfig(err, "Configuration", "Configure", fmt.Sprintf("gateway %q construction", name))
		}
		if err := c.setup.AddGateway(name, gateway.New(name, adapter)); err != nil {
			return err
		}
		c.metrics.recordGateway()
		c.logger.Debug("Gateway built", "configuration", c.id, "gateway", name, "adapter", c.defs[name].Adapter)
	}
	return nil
}

// gatewaySettings returns the frozen settings for one gateway without
// the adapter tag.
func (c *Configuration) gatewaySettings(name string) map[string]any {
	settings := c.tree.Section("gateways." + name)
	delete(settings, "adapter")
	return settings
}

// Use enables a single plugin on this configuration, applying its
// effect immediately. Unknown identifiers fail before anything else
// happens. Application order is significant: later plugins observe
// state left by earlier ones.
func (c *Configuration) Use(name string, options plugin.Options) error {
	if c.state == StateFinalized {
		return errors.WrapConfig(
			fmt.Errorf("use %q: %w", name, errors.ErrFinalized),
			"Configuration", "Use", "state check")
	}

	if err := c.plugins.Apply(name, c, options); err != nil {
		return err
	}

	c.enabled = append(c.enabled, name)
	c.logger.Debug("Plugin enabled", "configuration", c.id, "plugin", name)
	return nil
}

// UseMany enables an ordered sequence of plugins.
func (c *Configuration) UseMany(uses []plugin.Use) error {
	for _, u := range uses {
		if err := c.Use(u.Name, u.Options); err != nil {
			return err
		}
	}
	return nil
}

// EnabledPlugins returns the plugins enabled on this configuration in
// activation order.
func (c *Configuration) EnabledPlugins() []string {
	out := make([]string, len(c.enabled))
	copy(out, c.enabled)
	return out
}

// RegisterRelation declares a relation class. Structural registration
// is accepted until finalize.
func (c *Configuration) RegisterRelation(rel component.Relation, opts ...component.Options) error {
	options, err := c.registrationOptions("RegisterRelation", opts)
	if err != nil {
		return err
	}
	c.setup.AddRelation(component.NewDescriptor(component.KindRelation, rel, options))
	return nil
}

// RegisterCommand declares a command class.
func (c *Configuration) RegisterCommand(cmd component.Command, opts ...component.Options) error {
	options, err := c.registrationOptions("RegisterCommand", opts)
	if err != nil {
		return err
	}
	c.setup.AddCommand(component.NewDescriptor(component.KindCommand, cmd, options))
	return nil
}

// RegisterMapper declares a mapper class.
func (c *Configuration) RegisterMapper(m component.Mapper, opts ...component.Options) error {
	options, err := c.registrationOptions("RegisterMapper", opts)
	if err != nil {
		return err
	}
	c.setup.AddMapper(component.NewDescriptor(component.KindMapper, m, options))
	return nil
}

func (c *Configuration) registrationOptions(operation string, opts []component.Options) (component.Options, error) {
	if c.state == StateFinalized {
		return component.Options{}, errors.WrapConfig(
			errors.ErrFinalized, "Configuration", operation, "state check")
	}
	if len(opts) > 0 {
		return opts[0], nil
	}
	return component.Options{}, nil
}

// Gateway returns the built gateway registered under the given name.
// This is the typed replacement for "any unknown call is a gateway
// lookup" forwarding: unknown names fail with a NotFound-classified
// error, distinguishable from "no such operation".
func (c *Configuration) Gateway(name string) (*gateway.Gateway, error) {
	gw, ok := c.setup.Gateway(name)
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("gateway %q: %w", name, errors.ErrGatewayNotFound),
			"Configuration", "Gateway", "gateway lookup")
	}
	return gw, nil
}

// Relations returns the live relation registry. Only available once
// finalized.
func (c *Configuration) Relations() (*RelationRegistry, error) {
	if c.state != StateFinalized {
		return nil, errors.WrapConfig(errors.ErrNotFinalized, "Configuration", "Relations", "state check")
	}
	return c.relations, nil
}

// Commands returns the live command registry. Only available once
// finalized.
func (c *Configuration) Commands() (*CommandRegistry, error) {
	if c.state != StateFinalized {
		return nil, errors.WrapConfig(errors.ErrNotFinalized, "Configuration", "Commands", "state check")
	}
	return c.commands, nil
}

// Mappers returns the live mapper registry. Only available once
// finalized.
func (c *Configuration) Mappers() (*MapperRegistry, error) {
	if c.state != StateFinalized {
		return nil, errors.WrapConfig(errors.ErrNotFinalized, "Configuration", "Mappers", "state check")
	}
	return c.mappers, nil
}
