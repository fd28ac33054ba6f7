package component

import (
	"fmt"

	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/inflect"
)

// Kind identifies which registry a descriptor belongs to.
type Kind int

const (
	// KindRelation descriptors resolve to a structured Name.
	KindRelation Kind = iota
	// KindCommand descriptors resolve to a flat id plus a relation
	// back-reference.
	KindCommand
	// KindMapper descriptors resolve like commands; the back-reference
	// is optional.
	KindMapper
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindRelation:
		return "relation"
	case KindCommand:
		return "command"
	case KindMapper:
		return "mapper"
	default:
		return "unknown"
	}
}

// Options are the explicit declaration options for one component.
// Explicit values always win over class-exposed accessors.
type Options struct {
	// ID is the explicit identity (the relation role for relations).
	ID string
	// Dataset overrides the dataset a relation reads from.
	Dataset string
	// Gateway names the gateway a relation uses; empty means "default".
	Gateway string
	// Relation is the id of the relation a command or mapper targets.
	Relation string
}

// Descriptor wraps one declared class with its options and lazily
// resolves its identity. Descriptors are written during the configure
// phase and resolved during finalize, both on one goroutine.
type Descriptor struct {
	kind     Kind
	constant Component
	options  Options

	resolved   bool
	name       Name
	id         string
	relationID string
	relDone    bool
}

// NewDescriptor wraps a declared class for the given kind.
func NewDescriptor(kind Kind, constant Component, options Options) *Descriptor {
	return &Descriptor{kind: kind, constant: constant, options: options}
}

// Kind returns the descriptor's kind.
func (d *Descriptor) Kind() Kind {
	return d.kind
}

// Constant returns the declared class.
func (d *Descriptor) Constant() Component {
	return d.constant
}

// Options returns the explicit declaration options.
func (d *Descriptor) Options() Options {
	return d.options
}

// ID resolves the descriptor's identity within its kind's registry:
// explicit option first, then the class's own accessor, then the
// underscored bare name. The result is cached. For relations the id is
// the role component of the structured Name.
func (d *Descriptor) ID() (string, error) {
	if d.kind == KindRelation {
		name, err := d.Name()
		if err != nil {
			return "", err
		}
		return name.Role, nil
	}

	if d.resolved {
		return d.id, nil
	}

	id := d.options.ID
	if id == "" {
		if ider, ok := d.constant.(Identifier); ok {
			id = ider.ComponentID()
		}
	}
	if id == "" {
		id = inflect.Underscore(d.constant.TypeName())
	}
	if id == "" {
		return "", errors.WrapIdentity(
			fmt.Errorf("%s %T: %w", d.kind, d.constant, errors.ErrUnresolvedID),
			"Descriptor", "ID", "identity resolution")
	}

	d.id = id
	d.resolved = true
	return id, nil
}

// Name resolves a relation descriptor's structured (dataset, role)
// identity. The result is cached. Calling Name on a non-relation
// descriptor is a programming error surfaced as an identity error.
func (d *Descriptor) Name() (Name, error) {
	if d.kind != KindRelation {
		return Name{}, errors.WrapIdentity(
			fmt.Errorf("kind %s has a flat identity", d.kind),
			"Descriptor", "Name", "kind check")
	}

	if d.resolved {
		return d.name, nil
	}

	var name Name
	switch {
	case d.options.ID != "":
		name = NameFor(d.options.ID)
	default:
		if namer, ok := d.constant.(RelationNamer); ok {
			name = namer.RelationName()
		}
		if name.Role == "" {
			name = NameFor(inflect.Underscore(d.constant.TypeName()))
		}
	}

	if d.options.Dataset != "" {
		name.Dataset = d.options.Dataset
	}
	if name.Dataset == "" {
		name.Dataset = name.Role
	}

	if name.Role == "" {
		return Name{}, errors.WrapIdentity(
			fmt.Errorf("relation %T: %w", d.constant, errors.ErrUnresolvedID),
			"Descriptor", "Name", "identity resolution")
	}

	d.name = name
	d.id = name.Role
	d.resolved = true
	return name, nil
}

// RelationID resolves the id of the relation this descriptor targets:
// explicit option first, then the class's back-reference accessor.
// The second return is false when the component is relation-independent.
func (d *Descriptor) RelationID() (string, bool) {
	if d.relDone {
		return d.relationID, d.relationID != ""
	}

	id := d.options.Relation
	if id == "" {
		if ref, ok := d.constant.(RelationRef); ok {
			id = ref.Relation()
		}
	}

	d.relationID = id
	d.relDone = true
	return id, id != ""
}

// GatewayName returns the gateway a relation descriptor is bound to,
// falling back to the default gateway.
func (d *Descriptor) GatewayName() string {
	if d.options.Gateway != "" {
		return d.options.Gateway
	}
	if namer, ok := d.constant.(GatewayNamer); ok {
		if name := namer.Gateway(); name != "" {
			return name
		}
	}
	return "default"
}
