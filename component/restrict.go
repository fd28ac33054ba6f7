package component

import (
	"fmt"

	"github.com/wilsonsilva/rom/errors"
)

// RestrictedCommand decorates a built command with forwarding access to
// its target relation's view methods. Invoking a view that returns a
// narrowed relation yields a new command constructed against that view;
// any other result is returned unchanged.
//
// The decorator replaces runtime method grafting: the view-method set is
// captured as a name table at build time, and wrapping an already
// wrapped command is a no-op, so repeated builds against the same
// relation never duplicate forwarding surface.
type RestrictedCommand struct {
	base     Command
	relation Relation
	views    map[string]struct{}
}

// Restrict wraps a built command with its relation's view methods if the
// command class declares itself restrictable. Non-restrictable commands
// pass through untouched.
func Restrict(cmd Command, rel Relation) Command {
	if _, wrapped := cmd.(*RestrictedCommand); wrapped {
		return cmd
	}
	marker, ok := cmd.(RestrictableMarker)
	if !ok || !marker.Restrictable() {
		return cmd
	}

	views := make(map[string]struct{})
	for _, name := range rel.ViewMethods() {
		views[name] = struct{}{}
	}
	return &RestrictedCommand{base: cmd, relation: rel, views: views}
}

// TypeName returns the underlying command's bare name.
func (rc *RestrictedCommand) TypeName() string {
	return rc.base.TypeName()
}

// Restrictable reports true: a restricted command stays restrictable
// across further narrowing.
func (rc *RestrictedCommand) Restrictable() bool {
	return true
}

// Unwrap returns the underlying command instance.
func (rc *RestrictedCommand) Unwrap() Command {
	return rc.base
}

// Target returns the relation view this command is scoped to.
func (rc *RestrictedCommand) Target() Relation {
	return rc.relation
}

// Views returns the forwarded view-method names.
func (rc *RestrictedCommand) Views() []string {
	out := make([]string, 0, len(rc.views))
	for name := range rc.views {
		out = append(out, name)
	}
	return out
}

// Construct rebuilds the underlying command against another relation and
// re-wraps it.
func (rc *RestrictedCommand) Construct(rel Relation) (Command, error) {
	built, err := rc.base.Construct(rel)
	if err != nil {
		return nil, err
	}
	return Restrict(built, rel), nil
}

// View invokes one of the target relation's view methods. When the view
// returns a relation, the result is a new command restricted to that
// view; otherwise the raw result is returned unchanged.
func (rc *RestrictedCommand) View(name string, args ...any) (any, error) {
	if _, ok := rc.views[name]; !ok {
		return nil, errors.WrapLookup(
			fmt.Errorf("view %q on %q: %w", name, rc.base.TypeName(), errors.ErrUnknownView),
			"RestrictedCommand", "View", "view lookup")
	}

	result, err := rc.relation.View(name, args...)
	if err != nil {
		return nil, errors.Wrap(err, "RestrictedCommand", "View", fmt.Sprintf("view %q invocation", name))
	}

	narrowed, ok := result.(Relation)
	if !ok {
		return result, nil
	}
	return rc.Construct(narrowed)
}
