package component

import "github.com/wilsonsilva/rom/gateway"

// Component is the minimal declared-class contract. TypeName returns the
// bare name of the declared type (e.g. "Users", "CreateUser"); identity
// derivation lowercases and underscores it when nothing more explicit is
// available.
type Component interface {
	TypeName() string
}

// Schema describes the dataset a relation reads from. It is allocated
// with the relation's dataset name when the declared class does not
// carry one of its own.
type Schema struct {
	Dataset    string
	Attributes []string
}

// Relation is the declared-class contract for relations. A relation is
// constructed with its gateway and schema during finalize and exposes a
// set of view methods usable for command restriction.
type Relation interface {
	Component

	// Construct builds the live relation. Called exactly once per
	// descriptor during finalize; view invocations may construct further
	// narrowed instances.
	Construct(gw *gateway.Gateway, schema Schema) (Relation, error)

	// ViewMethods returns the names of the relation's view methods.
	ViewMethods() []string

	// View invokes a view method. The result is either a Relation (a
	// narrowed view) or a plain value; unknown names fail with a lookup
	// error.
	View(name string, args ...any) (any, error)
}

// Command is the declared-class contract for commands. A command is
// constructed against its target relation during finalize; restriction
// re-constructs it against a narrowed view.
type Command interface {
	Component
	Construct(rel Relation) (Command, error)
}

// Mapper is the declared-class contract for mappers. The relation is nil
// for relation-independent mappers.
type Mapper interface {
	Component
	Construct(rel Relation) (Mapper, error)
}

// RelationNamer is the optional default-name accessor on relation
// classes. It takes precedence over name derivation but not over an
// explicit id option.
type RelationNamer interface {
	RelationName() Name
}

// Identifier is the optional registration-name accessor on command and
// mapper classes.
type Identifier interface {
	ComponentID() string
}

// RelationRef is the optional relation back-reference accessor on
// command and mapper classes. An empty result means the component is
// relation-independent.
type RelationRef interface {
	Relation() string
}

// SchemaProvider is the optional schema accessor on relation classes.
// Classes without it receive a schema allocated from their dataset name.
type SchemaProvider interface {
	Schema() Schema
}

// GatewayNamer is the optional gateway accessor on relation classes.
// Classes without it use the default gateway.
type GatewayNamer interface {
	Gateway() string
}

// RestrictableMarker is the optional marker on command classes. A
// command that reports true gains forwarding access to its target
// relation's view methods at build time.
type RestrictableMarker interface {
	Restrictable() bool
}
