// Package setup orchestrates the two-phase configuration lifecycle that
// turns declarative component registrations into a fully wired,
// immutable runtime object graph.
//
// A Configuration moves through four states:
//
//	declaring -> configured -> frozen -> finalized
//
// Configure loads adapters eagerly, normalizes gateway definitions into
// the settings tree, runs the user block, freezes the tree and builds
// gateways from the frozen settings. Finalize computes the active
// listener set, then resolves every declared descriptor into a live
// object: relations first, then commands, then mappers, publishing a
// milestone event at each construction point so plugins can observe or
// augment the process.
//
// After finalize the live registries are read-only and safe for
// concurrent readers. The configure and finalize phases themselves run
// on a single goroutine and provide no internal synchronization.
package setup
