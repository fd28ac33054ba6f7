package gateway

import (
	"fmt"
	"sync"

	"github.com/wilsonsilva/rom/errors"
)

// Entry describes one adapter registered in a Catalog.
type Entry struct {
	// Setup constructs an adapter instance from frozen gateway settings.
	// Required. Any connection I/O belongs here, not in the core.
	Setup func(settings map[string]any) (Adapter, error)

	// Matches reports whether an adapter instance belongs to this entry.
	// Used for reverse tag lookup. Required for TagFor to consider the
	// entry; entries without a predicate are skipped.
	Matches func(Adapter) bool

	// OnLoad runs once when the adapter is loaded at the start of the
	// configure phase, before component declarations are processed.
	// Adapters use it to register plugins and listeners. Optional.
	OnLoad func() error

	// Schema describes the settings this adapter accepts. When present,
	// frozen gateway settings are validated against it before Setup runs.
	Schema *ConfigSchema
}

// record is the catalog's per-tag bookkeeping around a registered entry.
// Entries are plain values; load state lives here so each tag runs its
// hook once regardless of how the Entry was built or reused.
type record struct {
	entry    Entry
	loadOnce sync.Once
	loadErr  error
}

// Catalog is an ordered, process-wide registry of adapters keyed by type
// tag. Registration order is significant: reverse type matching resolves
// the first matching entry in registration order, which is the only
// deterministic order this core promises.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*record
}

// NewCatalog creates an empty adapter catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*record)}
}

// Default is the process-wide adapter catalog.
var Default = NewCatalog()

// Register adds an adapter entry under the given type tag.
// Registering a duplicate tag or an entry without a Setup function fails.
func (c *Catalog) Register(tag string, entry Entry) error {
	if tag == "" {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Catalog", "Register", "adapter tag validation")
	}
	if entry.Setup == nil {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Catalog", "Register", "setup function validation")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[tag]; exists {
		msg := fmt.Errorf("adapter %q is already registered", tag)
		return errors.WrapConfig(msg, "Catalog", "Register", "duplicate adapter check")
	}

	c.order = append(c.order, tag)
	c.entries[tag] = &record{entry: entry}
	return nil
}

// Register adds an adapter entry to the default catalog.
func Register(tag string, entry Entry) error {
	return Default.Register(tag, entry)
}

// Load resolves and eagerly loads an adapter by tag, running its OnLoad
// hook exactly once per registered tag. An unknown tag is a lookup error.
func (c *Catalog) Load(tag string) (*Entry, error) {
	c.mu.RLock()
	rec, exists := c.entries[tag]
	c.mu.RUnlock()

	if !exists {
		return nil, errors.WrapLookup(
			fmt.Errorf("adapter %q: %w", tag, errors.ErrAdapterNotFound),
			"Catalog", "Load", "adapter lookup")
	}

	if rec.entry.OnLoad != nil {
		rec.loadOnce.Do(func() {
			rec.loadErr = rec.entry.OnLoad()
		})
		if rec.loadErr != nil {
			return nil, errors.WrapConfig(rec.loadErr, "Catalog", "Load", fmt.Sprintf("adapter %q load hook", tag))
		}
	}

	return &rec.entry, nil
}

// Tags returns the registered tags in registration order.
func (c *Catalog) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// TagFor returns the type tag of the first registered entry whose
// Matches predicate accepts the adapter, in registration order.
// With multiple compatible adapters the result depends on registration
// order; callers needing a specific winner must register it first.
func (c *Catalog) TagFor(a Adapter) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, tag := range c.order {
		entry := c.entries[tag].entry
		if entry.Matches != nil && entry.Matches(a) {
			return tag, true
		}
	}
	return "", false
}
