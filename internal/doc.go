// Package internal contains the core implementation packages for deckgen.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the deckgen CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - structure: Layout grammar parsing and validation
//   - compiler: Slide markup rendering and slide-count derivation
//   - project: On-disk layout of a materialized deck
//   - materializer: Template archive extraction into deck directories
//   - customize: In-place markup customization and embedded-config rewriting
//   - finalize: Post-creation stylesheet consolidation and artifact pruning
//   - watcher: File system monitoring with debouncing for the watch mode
//   - config: Configuration management with validation
//   - errors: Structured error taxonomy
//   - logging: Structured logging built on log/slog
//   - version: Build-time version information
package internal
