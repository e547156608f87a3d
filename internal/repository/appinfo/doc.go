// Package appinfo resolves application metadata from the project's C version
// header. It scans for APP_VERSION, APP_NAME and APP_ORGANIZATION macro
// definitions with a single well-defined pattern per macro, not a general
// preprocessor parser.
//
// Resolution never fails the run: a missing header, an unreadable file or an
// absent macro falls back to the provided defaults with a warning.
package appinfo
