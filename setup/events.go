package setup

// Lifecycle events published during finalize. Every configuration bus
// declares these channels at construction; plugins may subscribe to any
// of them.
const (
	// EventRelationClassReady fires once per relation descriptor, before
	// anything is built. Payload: "relation" (declared class), "name"
	// (component.Name).
	EventRelationClassReady = "configuration.relations.class.ready"

	// EventRelationSchemaAllocated fires after a schema is created or
	// taken from the declared class. Payload adds "schema"
	// (component.Schema); listeners may replace it in place.
	EventRelationSchemaAllocated = "configuration.relations.schema.allocated"

	// EventRelationSchemaSet fires once the schema is bound to the
	// relation being built. Same payload as schema.allocated.
	EventRelationSchemaSet = "configuration.relations.schema.set"

	// EventRelationObjectRegistered fires after the live relation is
	// registered under its resolved id. Payload adds "registered"
	// (live component.Relation).
	EventRelationObjectRegistered = "configuration.relations.object.registered"

	// EventRelationRegistryCreated fires once, after every relation is
	// live. Payload: "registry" (*RelationRegistry).
	EventRelationRegistryCreated = "configuration.relations.registry.created"

	// EventCommandBeforeBuild fires once per command descriptor before
	// the command class is constructed. Payload: "command" (declared
	// class), "relation" (live relation or nil), "id". Listeners may
	// replace "command" to substitute the class that gets built.
	EventCommandBeforeBuild = "configuration.commands.class.before_build"
)

// busEvents lists every channel a configuration bus declares.
func busEvents() []string {
	return []string{
		EventRelationClassReady,
		EventRelationSchemaAllocated,
		EventRelationSchemaSet,
		EventRelationObjectRegistered,
		EventRelationRegistryCreated,
		EventCommandBeforeBuild,
	}
}
