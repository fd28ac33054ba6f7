// Package plugin provides the registry of third-party plugins and the
// contract by which a chosen plugin's effect is applied to one
// configuration. Plugins are enabled per-configuration, never globally:
// enabling records the plugin for listener scoping and runs its Apply
// hook, which may register components, mutate settings, or do nothing.
package plugin

import (
	"fmt"
	"sync"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/config"
	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/notify"
)

// TypeConfiguration is the extension point for plugins applied to a
// whole configuration. It is the only extension point this core defines.
const TypeConfiguration = "configuration"

// Options carries free-form per-application plugin options.
type Options map[string]any

// Target is the surface a plugin may touch on the configuration it is
// applied to. The setup package's Configuration implements it.
type Target interface {
	// RegisterRelation declares a relation class on the configuration.
	RegisterRelation(rel component.Relation, opts ...component.Options) error
	// RegisterCommand declares a command class on the configuration.
	RegisterCommand(cmd component.Command, opts ...component.Options) error
	// RegisterMapper declares a mapper class on the configuration.
	RegisterMapper(m component.Mapper, opts ...component.Options) error
	// Config exposes the configuration's settings tree, mutable until
	// the configure phase freezes it.
	Config() *config.Tree
	// Bus exposes the configuration's notification bus for
	// configuration-local subscriptions.
	Bus() *notify.Bus
}

// Plugin associates an identifier with a behavior applied to a target.
type Plugin struct {
	// Name is the plugin identifier used by Use.
	Name string
	// Type is the extension point; empty defaults to TypeConfiguration.
	Type string
	// Apply is invoked once per enabling configuration. Optional: a
	// plugin whose whole effect is plugin-scoped listeners may omit it.
	Apply func(target Target, options Options) error
}

// Use is one entry in an ordered plugin activation sequence.
type Use struct {
	Name    string
	Options Options
}

// Registry records available plugins per extension point.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]map[string]Plugin)}
}

// Default is the process-wide plugin registry. Adapter load hooks and
// plugin packages register here.
var Default = NewRegistry()

// Register adds a plugin under its extension point.
func (r *Registry) Register(p Plugin) error {
	if p.Name == "" {
		return errors.WrapPlugin(errors.New("plugin name cannot be empty"), "PluginRegistry", "Register", "name validation")
	}
	if p.Type == "" {
		p.Type = TypeConfiguration
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	byName, exists := r.entries[p.Type]
	if !exists {
		byName = make(map[string]Plugin)
		r.entries[p.Type] = byName
	}
	if _, exists := byName[p.Name]; exists {
		msg := fmt.Errorf("plugin %q is already registered for %q", p.Name, p.Type)
		return errors.WrapPlugin(msg, "PluginRegistry", "Register", "duplicate plugin check")
	}

	byName[p.Name] = p
	return nil
}

// Register adds a plugin to the default registry.
func Register(p Plugin) error {
	return Default.Register(p)
}

// Resolve looks up a plugin by extension point and name.
// An unknown identifier fails immediately with a plugin error.
func (r *Registry) Resolve(pluginType, name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if byName, exists := r.entries[pluginType]; exists {
		if p, exists := byName[name]; exists {
			return p, nil
		}
	}
	return Plugin{}, errors.WrapPlugin(
		fmt.Errorf("plugin %q for %q: %w", name, pluginType, errors.ErrUnknownPlugin),
		"PluginRegistry", "Resolve", "plugin lookup")
}

// Apply resolves a configuration-level plugin and invokes its Apply
// contract against the target.
func (r *Registry) Apply(name string, target Target, options Options) error {
	p, err := r.Resolve(TypeConfiguration, name)
	if err != nil {
		return err
	}
	if p.Apply == nil {
		return nil
	}
	if err := p.Apply(target, options); err != nil {
		return errors.WrapPlugin(err, "PluginRegistry", "Apply", fmt.Sprintf("plugin %q application", name))
	}
	return nil
}
