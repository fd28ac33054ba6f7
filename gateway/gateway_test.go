package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilsonsilva/rom/errors"
)

// stubDataset implements Dataset for testing
type stubDataset struct {
	name string
}

func (d stubDataset) Name() string { return d.name }

// stubAdapter implements Adapter backed by an in-memory dataset map
type stubAdapter struct {
	datasets map[string]Dataset
}

func newStubAdapter(names ...string) *stubAdapter {
	a := &stubAdapter{datasets: make(map[string]Dataset)}
	for _, n := range names {
		a.datasets[n] = stubDataset{name: n}
	}
	return a
}

func (a *stubAdapter) Connection() Connection { return a }

func (a *stubAdapter) Schema() []string {
	out := make([]string, 0, len(a.datasets))
	for n := range a.datasets {
		out = append(out, n)
	}
	return out
}

func (a *stubAdapter) Dataset(name string) (Dataset, bool) {
	ds, ok := a.datasets[name]
	return ds, ok
}

// otherAdapter is a second adapter type for reverse-tag matching tests
type otherAdapter struct {
	stubAdapter
}

func TestCatalogRegisterRejectsDuplicates(t *testing.T) {
	catalog := NewCatalog()
	entry := Entry{Setup: func(map[string]any) (Adapter, error) { return newStubAdapter(), nil }}

	require.NoError(t, catalog.Register("memory", entry))

	err := catalog.Register("memory", entry)
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestCatalogRegisterRequiresSetup(t *testing.T) {
	catalog := NewCatalog()

	err := catalog.Register("broken", Entry{})
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
}

func TestCatalogLoadUnknownTag(t *testing.T) {
	catalog := NewCatalog()

	_, err := catalog.Load("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.Is(err, errors.ErrAdapterNotFound))
}

func TestCatalogLoadRunsOnLoadOnce(t *testing.T) {
	catalog := NewCatalog()

	loads := 0
	require.NoError(t, catalog.Register("memory", Entry{
		Setup:  func(map[string]any) (Adapter, error) { return newStubAdapter(), nil },
		OnLoad: func() error { loads++; return nil },
	}))

	_, err := catalog.Load("memory")
	require.NoError(t, err)
	_, err = catalog.Load("memory")
	require.NoError(t, err)

	assert.Equal(t, 1, loads)
}

func TestCatalogTracksLoadStatePerTag(t *testing.T) {
	catalog := NewCatalog()

	// One entry value reused across registrations: load bookkeeping
	// belongs to the catalog, not the value, so each tag loads once.
	loads := 0
	entry := Entry{
		Setup:  func(map[string]any) (Adapter, error) { return newStubAdapter(), nil },
		OnLoad: func() error { loads++; return nil },
	}
	require.NoError(t, catalog.Register("memory", entry))
	require.NoError(t, catalog.Register("durable", entry))

	for _, tag := range []string{"memory", "memory", "durable", "durable"} {
		_, err := catalog.Load(tag)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, loads)
}

func TestCatalogTagForUsesRegistrationOrder(t *testing.T) {
	catalog := NewCatalog()

	setup := func(map[string]any) (Adapter, error) { return newStubAdapter(), nil }
	matchStub := func(a Adapter) bool {
		_, ok := a.(*stubAdapter)
		return ok
	}

	// Both entries match *stubAdapter; the first registered wins.
	require.NoError(t, catalog.Register("first", Entry{Setup: setup, Matches: matchStub}))
	require.NoError(t, catalog.Register("second", Entry{Setup: setup, Matches: matchStub}))
	require.NoError(t, catalog.Register("other", Entry{
		Setup: setup,
		Matches: func(a Adapter) bool {
			_, ok := a.(*otherAdapter)
			return ok
		},
	}))

	tag, ok := catalog.TagFor(newStubAdapter())
	require.True(t, ok)
	assert.Equal(t, "first", tag)

	tag, ok = catalog.TagFor(&otherAdapter{})
	require.True(t, ok)
	assert.Equal(t, "other", tag)

	assert.Equal(t, []string{"first", "second", "other"}, catalog.Tags())
}

func TestGatewayDatasetLookup(t *testing.T) {
	gw := New("default", newStubAdapter("users", "tasks"))

	ds, err := gw.Dataset("users")
	require.NoError(t, err)
	assert.Equal(t, "users", ds.Name())

	_, err = gw.Dataset("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.Is(err, errors.ErrDatasetNotFound))
}

func TestValidateConfig(t *testing.T) {
	minimum := 1
	maximum := 65535
	schema := ConfigSchema{
		Properties: map[string]PropertySchema{
			"host": {Type: "string"},
			"port": {Type: "int", Minimum: &minimum, Maximum: &maximum},
			"mode": {Type: "string", Enum: []string{"memory", "durable"}},
		},
		Required: []string{"host"},
	}

	tests := []struct {
		name      string
		config    map[string]any
		wantCodes []string
	}{
		{
			name:   "valid",
			config: map[string]any{"host": "localhost", "port": 5432, "mode": "memory"},
		},
		{
			name:      "missing required",
			config:    map[string]any{"port": 5432},
			wantCodes: []string{"required"},
		},
		{
			name:      "type mismatch",
			config:    map[string]any{"host": 42},
			wantCodes: []string{"type"},
		},
		{
			name:      "out of range",
			config:    map[string]any{"host": "h", "port": 0},
			wantCodes: []string{"minimum"},
		},
		{
			name:      "bad enum",
			config:    map[string]any{"host": "h", "mode": "weird"},
			wantCodes: []string{"enum"},
		},
		{
			name:   "unknown fields allowed",
			config: map[string]any{"host": "h", "extra": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfig(tt.config, schema)
			require.Len(t, errs, len(tt.wantCodes))
			for i, code := range tt.wantCodes {
				assert.Equal(t, code, errs[i].Code)
			}
		})
	}
}
