package setup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/config"
	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/gateway"
	"github.com/wilsonsilva/rom/notify"
	"github.com/wilsonsilva/rom/plugin"
)

// memDataset is a named in-memory dataset.
type memDataset struct {
	name string
}

func (d *memDataset) Name() string { return d.name }

// memAdapter is an in-memory adapter fixture holding a fixed set of
// datasets.
type memAdapter struct {
	datasets map[string]*memDataset
	settings map[string]any
}

func newMemAdapter(settings map[string]any, datasets ...string) *memAdapter {
	a := &memAdapter{
		datasets: make(map[string]*memDataset, len(datasets)),
		settings: settings,
	}
	for _, name := range datasets {
		a.datasets[name] = &memDataset{name: name}
	}
	return a
}

func (a *memAdapter) Connection() gateway.Connection { return a.settings }

func (a *memAdapter) Schema() []string {
	out := make([]string, 0, len(a.datasets))
	for name := range a.datasets {
		out = append(out, name)
	}
	return out
}

func (a *memAdapter) Dataset(name string) (gateway.Dataset, bool) {
	ds, ok := a.datasets[name]
	return ds, ok
}

// testCatalog builds an isolated adapter catalog with a "memory"
// adapter registered. setupCalls counts adapter constructions.
func testCatalog(t *testing.T, setupCalls *int) *gateway.Catalog {
	t.Helper()
	catalog := gateway.NewCatalog()
	err := catalog.Register("memory", gateway.Entry{
		Setup: func(settings map[string]any) (gateway.Adapter, error) {
			if setupCalls != nil {
				*setupCalls++
			}
			return newMemAdapter(settings, "users", "tasks"), nil
		},
		Matches: func(a gateway.Adapter) bool {
			_, ok := a.(*memAdapter)
			return ok
		},
	})
	require.NoError(t, err)
	return catalog
}

// testConfiguration builds a Configuration wired to isolated
// registries so tests never touch process-wide defaults.
func testConfiguration(t *testing.T, opts ...Option) *Configuration {
	t.Helper()
	base := []Option{
		WithAdapters(testCatalog(t, nil)),
		WithPlugins(plugin.NewRegistry()),
		WithListeners(notify.NewRegistrations()),
	}
	return New(append(base, opts...)...)
}

func defaultDefs() config.GatewayDefs {
	return config.GatewayDefs{"default": {Adapter: "memory"}}
}

// usersRelation is a minimal relation fixture. Its bare type name
// derives the id "users".
type usersRelation struct {
	gw     *gateway.Gateway
	schema component.Schema
}

func (r *usersRelation) TypeName() string { return "Users" }

func (r *usersRelation) Construct(gw *gateway.Gateway, schema component.Schema) (component.Relation, error) {
	return &usersRelation{gw: gw, schema: schema}, nil
}

func (r *usersRelation) ViewMethods() []string { return nil }

func (r *usersRelation) View(name string, args ...any) (any, error) {
	return nil, fmt.Errorf("view %q: %w", name, errors.ErrUnknownView)
}

func TestNewStartsDeclaring(t *testing.T) {
	c := testConfiguration(t)

	assert.Equal(t, StateDeclaring, c.State())
	assert.NotEmpty(t, c.ID())
	assert.False(t, c.Config().Frozen())
}

func TestConfigureBuildsDefaultGateway(t *testing.T) {
	c := testConfiguration(t)

	err := c.Configure(defaultDefs(), nil)
	require.NoError(t, err)

	assert.Equal(t, StateFrozen, c.State())
	gw, err := c.Gateway("default")
	require.NoError(t, err)
	assert.Equal(t, "default", gw.Name())

	ds, err := gw.Dataset("users")
	require.NoError(t, err)
	assert.Equal(t, "users", ds.Name())
}

func TestConfigureTwiceRejected(t *testing.T) {
	c := testConfiguration(t)
	require.NoError(t, c.Configure(defaultDefs(), nil))

	err := c.Configure(defaultDefs(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
}

func TestConfigureFreezesSettings(t *testing.T) {
	c := testConfiguration(t)
	require.NoError(t, c.Configure(defaultDefs(), func(c *Configuration) error {
		return c.Config().Set("repositories.default.auto_struct", true)
	}))

	assert.True(t, c.Config().Frozen())

	err := c.Config().Set("repositories.default.auto_struct", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFrozen)

	value, ok := c.Config().Get("repositories.default.auto_struct")
	require.True(t, ok)
	assert.Equal(t, true, value)
}

func TestConfigureNormalizesSettingsIntoTree(t *testing.T) {
	c := testConfiguration(t)
	defs := config.GatewayDefs{
		"default": {Adapter: "memory", Settings: map[string]any{"namespace": "app"}},
	}
	require.NoError(t, c.Configure(defs, nil))

	adapter, ok := c.Config().Get("gateways.default.adapter")
	require.True(t, ok)
	assert.Equal(t, "memory", adapter)

	namespace, ok := c.Config().Get("gateways.default.namespace")
	require.True(t, ok)
	assert.Equal(t, "app", namespace)
}

func TestConfigureDefaultAdapterFallback(t *testing.T) {
	c := testConfiguration(t)
	defs := config.GatewayDefs{
		"default": {Adapter: "memory"},
		"events":  {},
	}
	require.NoError(t, c.Configure(defs, nil))

	gw, err := c.Gateway("events")
	require.NoError(t, err)
	assert.Equal(t, "events", gw.Name())

	adapter, ok := c.Config().Get("gateways.events.adapter")
	require.True(t, ok)
	assert.Equal(t, "memory", adapter)
}

func TestConfigureNoDefaultAdapter(t *testing.T) {
	c := testConfiguration(t)
	defs := config.GatewayDefs{"events": {}}

	err := c.Configure(defs, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoDefaultAdapter)
	assert.True(t, errors.IsConfig(err))
}

func TestConfigureUnknownAdapter(t *testing.T) {
	c := testConfiguration(t)
	defs := config.GatewayDefs{"default": {Adapter: "warehouse"}}

	err := c.Configure(defs, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAdapterNotFound)
}

func TestConfigureValidatesSettingsSchema(t *testing.T) {
	setupCalls := 0
	catalog := gateway.NewCatalog()
	err := catalog.Register("memory", gateway.Entry{
		Setup: func(settings map[string]any) (gateway.Adapter, error) {
			setupCalls++
			return newMemAdapter(settings), nil
		},
		Schema: &gateway.ConfigSchema{
			Properties: map[string]gateway.PropertySchema{
				"namespace": {Type: "string"},
			},
			Required: []string{"namespace"},
		},
	})
	require.NoError(t, err)

	c := testConfiguration(t, WithAdapters(catalog))
	err = c.Configure(config.GatewayDefs{"default": {Adapter: "memory"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
	assert.Equal(t, 0, setupCalls, "adapter must not be constructed when settings are invalid")
}

func TestConfigureBuildsEachGatewayOnce(t *testing.T) {
	setupCalls := 0
	c := testConfiguration(t, WithAdapters(testCatalog(t, &setupCalls)))
	defs := config.GatewayDefs{
		"default": {Adapter: "memory"},
		"events":  {Adapter: "memory"},
	}
	require.NoError(t, c.Configure(defs, nil))
	assert.Equal(t, 2, setupCalls)

	first, err := c.Gateway("events")
	require.NoError(t, err)
	second, err := c.Gateway("events")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 2, setupCalls, "repeated lookups must not rebuild gateways")
}

func TestGatewayUnknownName(t *testing.T) {
	c := testConfiguration(t)
	require.NoError(t, c.Configure(defaultDefs(), nil))

	_, err := c.Gateway("warehouse")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrGatewayNotFound)
	assert.True(t, errors.IsNotFound(err))
}

func TestAdapterLoadHookRunsBeforeBlock(t *testing.T) {
	plugins := plugin.NewRegistry()
	catalog := gateway.NewCatalog()
	err := catalog.Register("memory", gateway.Entry{
		Setup: func(settings map[string]any) (gateway.Adapter, error) {
			return newMemAdapter(settings), nil
		},
		OnLoad: func() error {
			return plugins.Register(plugin.Plugin{
				Name: "timestamps",
				Type: plugin.TypeConfiguration,
			})
		},
	})
	require.NoError(t, err)

	c := testConfiguration(t, WithAdapters(catalog), WithPlugins(plugins))
	err = c.Configure(defaultDefs(), func(c *Configuration) error {
		// The load hook ran, so the plugin it registered is usable here.
		return c.Use("timestamps", nil)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"timestamps"}, c.EnabledPlugins())
}

func TestUseUnknownPluginFailsImmediately(t *testing.T) {
	c := testConfiguration(t)
	require.NoError(t, c.Configure(defaultDefs(), nil))

	err := c.Use("missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownPlugin)
	assert.Empty(t, c.EnabledPlugins())
}

func TestUseUnknownPluginAbortsBeforeGateways(t *testing.T) {
	setupCalls := 0
	c := testConfiguration(t, WithAdapters(testCatalog(t, &setupCalls)))

	err := c.Configure(defaultDefs(), func(c *Configuration) error {
		return c.Use("missing", nil)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownPlugin)
	assert.Empty(t, c.EnabledPlugins())
	assert.Equal(t, 0, setupCalls, "no gateway may be built once a plugin lookup fails")

	_, err = c.Gateway("default")
	assert.ErrorIs(t, err, errors.ErrGatewayNotFound)
}

func TestUseAppliesImmediately(t *testing.T) {
	plugins := plugin.NewRegistry()
	require.NoError(t, plugins.Register(plugin.Plugin{
		Name: "auto_relations",
		Type: plugin.TypeConfiguration,
		Apply: func(target plugin.Target, options plugin.Options) error {
			return target.RegisterRelation(&usersRelation{})
		},
	}))

	c := testConfiguration(t, WithPlugins(plugins))
	require.NoError(t, c.Configure(defaultDefs(), func(c *Configuration) error {
		return c.Use("auto_relations", nil)
	}))

	assert.Len(t, c.Setup().Relations(), 1)
}

func TestUseManyAppliesInOrder(t *testing.T) {
	var applied []string
	plugins := plugin.NewRegistry()
	for _, name := range []string{"first", "second"} {
		name := name
		require.NoError(t, plugins.Register(plugin.Plugin{
			Name: name,
			Type: plugin.TypeConfiguration,
			Apply: func(plugin.Target, plugin.Options) error {
				applied = append(applied, name)
				return nil
			},
		}))
	}

	c := testConfiguration(t, WithPlugins(plugins))
	require.NoError(t, c.Configure(defaultDefs(), func(c *Configuration) error {
		return c.UseMany([]plugin.Use{{Name: "second"}, {Name: "first"}})
	}))

	assert.Equal(t, []string{"second", "first"}, applied)
	assert.Equal(t, []string{"second", "first"}, c.EnabledPlugins())
}

func TestRegisterRelationCapturesOptions(t *testing.T) {
	c := testConfiguration(t)
	require.NoError(t, c.Configure(defaultDefs(), func(c *Configuration) error {
		return c.RegisterRelation(&usersRelation{}, component.Options{ID: "people", Gateway: "default"})
	}))

	relations := c.Setup().Relations()
	require.Len(t, relations, 1)
	name, err := relations[0].Name()
	require.NoError(t, err)
	assert.Equal(t, "people", name.Role)
}
