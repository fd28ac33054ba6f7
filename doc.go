// Package rom provides the bootstrap and lifecycle core of a declarative
// data-mapping toolkit: applications declare relations, commands and
// mappers against named gateways, and the core assembles them into live,
// read-only component registries.
//
// # Lifecycle
//
// A Configuration walks four states, strictly forward:
//
//	declaring → configured → frozen → finalized
//
// Configure captures gateway definitions into a settings tree, loads the
// referenced adapters eagerly (so anything they register exists before
// user declarations run), runs the declaration block, freezes the tree
// and builds the gateways. Finalize then turns the frozen declarations
// into live components in a fixed order: relations, then commands, then
// mappers. Structural mutation after the relevant phase fails with a
// classified error rather than being silently ignored.
//
// # Packages
//
//   - setup: Configuration facade, lifecycle orchestration, live
//     component registries
//   - component: declared-class contracts, descriptors with lazy id
//     resolution, command restriction
//   - gateway: adapter contract, adapter catalog, gateway handles
//   - config: freezable nested settings tree and YAML gateway files
//   - plugin: plugin registry keyed by extension point
//   - notify: lifecycle notification bus with plugin-scoped listeners
//   - inflect: identifier derivation (CamelCase to snake_case)
//   - errors: classified errors shared by every package
//   - metric: prometheus metrics registry
//
// # Boundaries
//
// The core performs no I/O of its own. Connections, datasets and query
// execution belong to adapters behind the gateway.Adapter contract; the
// core only resolves, validates and assembles. Anything domain-specific
// (SQL generation, HTTP surfaces, schema inference) belongs in adapter
// modules built on top of this one.
package rom
