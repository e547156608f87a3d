// Package version exposes build metadata for the qt-deploy tool itself.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. This is the
// tool's own version; the version of the application being packaged is
// resolved per run from its version header.
package version
