package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wilsonsilva/rom/errors"
)

// Tree is a nested settings tree addressed by dotted paths.
// It is mutated from a single goroutine during the configure phase and
// becomes read-only once frozen; frozen trees are safe for concurrent
// reads.
type Tree struct {
	frozen bool
	root   map[string]any
}

// NewTree creates an empty, unfrozen settings tree.
func NewTree() *Tree {
	return &Tree{root: make(map[string]any)}
}

// Set assigns a value at the dotted path, creating intermediate maps as
// needed. Setting any key after Freeze fails with a config error.
func (t *Tree) Set(path string, value any) error {
	if t.frozen {
		return errors.WrapConfig(
			fmt.Errorf("set %q: %w", path, errors.ErrFrozen),
			"Tree", "Set", "frozen check")
	}
	if path == "" {
		return errors.WrapConfig(errors.ErrInvalidConfig, "Tree", "Set", "path validation")
	}

	keys := strings.Split(path, ".")
	node := t.root
	for _, key := range keys[:len(keys)-1] {
		child, exists := node[key]
		if !exists {
			next := make(map[string]any)
			node[key] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return errors.WrapConfig(
				fmt.Errorf("path %q: segment %q holds a scalar", path, key),
				"Tree", "Set", "path traversal")
		}
		node = next
	}

	node[keys[len(keys)-1]] = value
	return nil
}

// Get returns the value at the dotted path.
func (t *Tree) Get(path string) (any, bool) {
	keys := strings.Split(path, ".")
	node := t.root
	for _, key := range keys[:len(keys)-1] {
		child, exists := node[key]
		if !exists {
			return nil, false
		}
		next, ok := child.(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}

	value, exists := node[keys[len(keys)-1]]
	return value, exists
}

// Section returns a copy of the map stored at the dotted path, or an
// empty map if the path is absent. The copy is shallow one level deep,
// enough to keep callers from mutating frozen structure.
func (t *Tree) Section(path string) map[string]any {
	value, exists := t.Get(path)
	if !exists {
		return map[string]any{}
	}
	section, ok := value.(map[string]any)
	if !ok {
		return map[string]any{}
	}

	out := make(map[string]any, len(section))
	for k, v := range section {
		out[k] = v
	}
	return out
}

// Each calls fn for every leaf value with its full dotted path, in
// sorted path order. Returning false stops the walk.
func (t *Tree) Each(fn func(path string, value any) bool) {
	walkLeaves("", t.root, fn)
}

func walkLeaves(prefix string, node map[string]any, fn func(string, any) bool) bool {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := node[key].(map[string]any); ok {
			if !walkLeaves(path, child, fn) {
				return false
			}
			continue
		}
		if !fn(path, node[key]) {
			return false
		}
	}
	return true
}

// Freeze irreversibly closes the tree for structural modification.
// Freezing twice is a no-op.
func (t *Tree) Freeze() {
	t.frozen = true
}

// Frozen reports whether the tree has been frozen.
func (t *Tree) Frozen() bool {
	return t.frozen
}
