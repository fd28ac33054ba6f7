// Package gateway defines the adapter collaborator contract and the named,
// adapter-backed connection handles shared by relations.
//
// An Adapter supplies a connection, a schema and dataset lookup for one
// storage backend. Adapters are resolved from an ordered Catalog keyed by
// a type tag; loading an adapter may register plugins as a side effect,
// which is why the setup phase loads adapters eagerly before processing
// component declarations.
package gateway
