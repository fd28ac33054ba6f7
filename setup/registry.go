package setup

import (
	"fmt"
	"sort"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/errors"
)

// RelationRegistry is the live, read-only relation registry produced by
// finalize. Lookups are keyed by the relation's resolved role.
type RelationRegistry struct {
	items map[string]component.Relation
	names map[string]component.Name
}

func newRelationRegistry() *RelationRegistry {
	return &RelationRegistry{
		items: make(map[string]component.Relation),
		names: make(map[string]component.Name),
	}
}

// reserve rejects an id collision before any build work or event
// publishing happens for the colliding declaration.
func (r *RelationRegistry) reserve(name component.Name) error {
	if _, exists := r.items[name.Role]; exists {
		return errors.WrapIdentity(
			fmt.Errorf("relation %q: %w", name, errors.ErrDuplicateID),
			"RelationRegistry", "reserve", "duplicate identity check")
	}
	return nil
}

func (r *RelationRegistry) add(name component.Name, rel component.Relation) error {
	if _, exists := r.items[name.Role]; exists {
		return errors.WrapIdentity(
			fmt.Errorf("relation %q: %w", name, errors.ErrDuplicateID),
			"RelationRegistry", "add", "duplicate identity check")
	}
	r.items[name.Role] = rel
	r.names[name.Role] = name
	return nil
}

// Get returns the live relation registered under the given id.
func (r *RelationRegistry) Get(id string) (component.Relation, error) {
	rel, ok := r.items[id]
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("relation %q: %w", id, errors.ErrNotFound),
			"RelationRegistry", "Get", "relation lookup")
	}
	return rel, nil
}

// Name returns the structured name a relation was registered under.
func (r *RelationRegistry) Name(id string) (component.Name, bool) {
	name, ok := r.names[id]
	return name, ok
}

// IDs returns the registered ids in sorted order.
func (r *RelationRegistry) IDs() []string {
	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered relations.
func (r *RelationRegistry) Len() int {
	return len(r.items)
}

// CommandRegistry is the live, read-only command registry produced by
// finalize.
type CommandRegistry struct {
	items map[string]component.Command
}

func newCommandRegistry() *CommandRegistry {
	return &CommandRegistry{items: make(map[string]component.Command)}
}

func (r *CommandRegistry) add(id string, cmd component.Command) error {
	if _, exists := r.items[id]; exists {
		return errors.WrapIdentity(
			fmt.Errorf("command %q: %w", id, errors.ErrDuplicateID),
			"CommandRegistry", "add", "duplicate identity check")
	}
	r.items[id] = cmd
	return nil
}

// Get returns the live command registered under the given id.
func (r *CommandRegistry) Get(id string) (component.Command, error) {
	cmd, ok := r.items[id]
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("command %q: %w", id, errors.ErrNotFound),
			"CommandRegistry", "Get", "command lookup")
	}
	return cmd, nil
}

// IDs returns the registered ids in sorted order.
func (r *CommandRegistry) IDs() []string {
	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered commands.
func (r *CommandRegistry) Len() int {
	return len(r.items)
}

// MapperRegistry is the live, read-only mapper registry produced by
// finalize.
type MapperRegistry struct {
	items map[string]component.Mapper
}

func newMapperRegistry() *MapperRegistry {
	return &MapperRegistry{items: make(map[string]component.Mapper)}
}

func (r *MapperRegistry) add(id string, m component.Mapper) error {
	if _, exists := r.items[id]; exists {
		return errors.WrapIdentity(
			fmt.Errorf("mapper %q: %w", id, errors.ErrDuplicateID),
			"MapperRegistry", "add", "duplicate identity check")
	}
	r.items[id] = m
	return nil
}

// Get returns the live mapper registered under the given id.
func (r *MapperRegistry) Get(id string) (component.Mapper, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("mapper %q: %w", id, errors.ErrNotFound),
			"MapperRegistry", "Get", "mapper lookup")
	}
	return m, nil
}

// IDs returns the registered ids in sorted order.
func (r *MapperRegistry) IDs() []string {
	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered mappers.
func (r *MapperRegistry) Len() int {
	return len(r.items)
}
