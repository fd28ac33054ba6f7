// Package notify implements the named-event notification bus that lets
// plugins hook specific lifecycle points without touching the core flow.
//
// Listener registrations are collected process-wide in a Registrations
// table, partitioned into global listeners (no owning plugin) and
// plugin-scoped listeners (active only when the owning plugin is enabled
// on a configuration). Each configuration derives its own Bus from that
// table exactly once, after plugin activation and before finalize.
package notify

import (
	"fmt"
	"slices"
	"sync"

	"github.com/wilsonsilva/rom/errors"
)

// Payload carries event data. Listeners may mutate fields in place;
// later listeners and downstream lifecycle code observe the mutation.
type Payload map[string]any

// Handler processes one event publication.
type Handler func(Payload)

// registration is one (owning plugin, event name, handler) triple.
// An empty plugin means the listener is global.
type registration struct {
	plugin  string
	event   string
	handler Handler
}

// Registrations is an ordered, process-wide table of listener
// registrations. Plugins and adapters contribute to it at load time;
// configurations snapshot it via Bus.Scope.
type Registrations struct {
	mu   sync.Mutex
	regs []registration
}

// NewRegistrations creates an empty listener table.
func NewRegistrations() *Registrations {
	return &Registrations{}
}

// Default is the process-wide listener table. Plugin packages subscribe
// here when they are loaded.
var Default = NewRegistrations()

// Subscribe registers a global listener for the named event.
// Global listeners are active on every configuration.
func (r *Registrations) Subscribe(event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs = append(r.regs, registration{event: event, handler: h})
}

// SubscribeFor registers a listener owned by the named plugin.
// The listener is active only on configurations that enabled the plugin.
func (r *Registrations) SubscribeFor(plugin, event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs = append(r.regs, registration{plugin: plugin, event: event, handler: h})
}

// snapshot returns the registrations active for the given enabled-plugin
// set, preserving registration order.
func (r *Registrations) snapshot(enabled []string) []registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]registration, 0, len(r.regs))
	for _, reg := range r.regs {
		if reg.plugin == "" || slices.Contains(enabled, reg.plugin) {
			out = append(out, reg)
		}
	}
	return out
}

// Bus is one configuration's event channel set and active listener list.
// It is built and published from a single goroutine during the configure
// and finalize phases and needs no internal locking; after finalize no
// write path remains.
type Bus struct {
	events    map[string]struct{}
	listeners []registration
	scoped    bool
}

// NewBus creates a bus with the given valid event channels declared.
func NewBus(events ...string) *Bus {
	b := &Bus{events: make(map[string]struct{}, len(events))}
	for _, name := range events {
		b.RegisterEvent(name)
	}
	return b
}

// RegisterEvent declares a valid event channel.
// Registering the same name twice is a no-op.
func (b *Bus) RegisterEvent(name string) {
	b.events[name] = struct{}{}
}

// EventRegistered reports whether the named channel has been declared.
func (b *Bus) EventRegistered(name string) bool {
	_, ok := b.events[name]
	return ok
}

// Subscribe attaches a configuration-local listener for the named event.
// Local listeners are always active, regardless of plugin scoping.
func (b *Bus) Subscribe(event string, h Handler) {
	b.listeners = append(b.listeners, registration{event: event, handler: h})
}

// Scope merges the registrations from the process-wide table that are
// active for the enabled-plugin set into this bus, ahead of any local
// listeners already attached. It is computed once per configuration,
// after all plugin activations and before finalize.
func (b *Bus) Scope(regs *Registrations, enabled []string) {
	if b.scoped {
		return
	}
	b.scoped = true
	b.listeners = append(regs.snapshot(enabled), b.listeners...)
}

// Publish invokes every active listener for the named event
// synchronously, in registration order. Publishing an event that was
// never registered fails fast.
func (b *Bus) Publish(event string, payload Payload) error {
	if !b.EventRegistered(event) {
		return errors.WrapLookup(
			fmt.Errorf("event %q: %w", event, errors.ErrUnknownEvent),
			"Bus", "Publish", "event lookup")
	}

	for _, reg := range b.listeners {
		if reg.event == event {
			reg.handler(payload)
		}
	}
	return nil
}
