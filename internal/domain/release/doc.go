// Package release holds the value objects of a deployment run: the resolved
// application version, installer metadata, and the pipeline stage model
// (stage identifiers, the requested stage set, and per-stage results).
//
// Everything here is immutable once produced; components recompute these
// values per run instead of sharing mutable state.
package release
