// Package config implements the nested, mutable-until-frozen settings
// tree owned by a configuration. Keys are dotted paths; values are
// free-form. Freezing is a one-way "closed for modification" marker, not
// a lock: subsequent structural writes fail, they never silently no-op.
package config
