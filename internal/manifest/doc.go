// Package manifest describes the layout a scaffold run produces: ordered groups
// of directory and file paths relative to a project root. It parses manifest
// YAML, validates it against an embedded JSON Schema, normalizes paths to
// forward-slash form, and ships the built-in application layout.
package manifest
