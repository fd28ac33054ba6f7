// Package component defines the declared-class contracts for relations,
// commands and mappers, and the generic component descriptor that infers
// a stable identity for a declared class.
//
// Identity resolution is a fixed precedence chain, evaluated lazily and
// cached: an explicit option wins over a kind-specific accessor on the
// declared class, which wins over the snake_case form of the class's
// bare name. Every declarable component carries its bare name as an
// explicit string; the core never reflects over live types.
package component
