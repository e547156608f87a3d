// Package config defines the deployment settings profile and resolves the
// filesystem locations the pipeline touches.
//
// Settings (application identity, resource folders, external tool binaries)
// live in a YAML profile with helpers to load, validate and save them.
// Paths are resolved once per run: built-in defaults derived from the source
// directory, overlaid with the profile, overlaid with CLI overrides. Path
// resolution never checks existence; each stage validates the subset of
// paths it actually needs.
package config
